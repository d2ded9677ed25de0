package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNoStateDir = errors.New("state directory unavailable")
	ErrReadState  = errors.New("read state failed")
	ErrWriteState = errors.New("write state failed")
)
