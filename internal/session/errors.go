package session

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrSessionExpired means the session was cleared because the token was
	// invalid or the backend reported it expired.
	ErrSessionExpired = errors.New("session expired")

	// ErrDenied means the backend refused the call for a reason other than
	// expiry; the session is retained.
	ErrDenied = errors.New("authorization denied")
)
