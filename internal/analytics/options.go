package analytics

import (
	"time"

	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithIdentitySource attaches the session identity provider so events can
// carry the authenticated user id alongside the anonymous one.
func WithIdentitySource(src IdentitySource) Option {
	return func(c *Client) {
		c.identity = src
	}
}

// WithFlushInterval sets the periodic flush interval.
func WithFlushInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.flushInterval = d
		}
	}
}

// WithBatchThreshold sets the queue depth that triggers an early flush.
func WithBatchThreshold(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchThreshold = n
		}
	}
}

// WithQueueCapacity bounds the in-memory event buffer.
func WithQueueCapacity(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.queueCapacity = n
		}
	}
}

// WithTeardownTimeout bounds the final flush at Destroy.
func WithTeardownTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.teardownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
