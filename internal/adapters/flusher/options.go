package flusher

import (
	"time"

	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Option applies a configuration option to the Flusher.
type Option func(*Flusher)

// WithInterval sets the periodic flush interval.
func WithInterval(d time.Duration) Option {
	return func(f *Flusher) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithTeardownTimeout bounds the final flush at shutdown.
func WithTeardownTimeout(d time.Duration) Option {
	return func(f *Flusher) {
		if d > 0 {
			f.teardownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the flusher.
func WithLogger(l logger.Logger) Option {
	return func(f *Flusher) {
		if l != nil {
			f.logger = l
		}
	}
}
