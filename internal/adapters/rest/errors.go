package rest

import "errors"

// Sentinel kinds for transport errors.
var (
	ErrNetwork        = errors.New("network failure")
	ErrIngestRejected = errors.New("ingestion rejected")
)
