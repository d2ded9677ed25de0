package token

import "errors"

// Sentinel kinds for token errors.
var (
	ErrMalformed = errors.New("malformed token")
)
