package buffer

// Option applies a configuration option to the Buffer.
type Option func(*Buffer)

// WithCapacity sets the maximum number of buffered events.
func WithCapacity(capacity int) Option {
	return func(b *Buffer) {
		if capacity > 0 {
			b.capacity = capacity
		}
	}
}

// WithThreshold sets the queue depth that triggers an early flush.
func WithThreshold(threshold int) Option {
	return func(b *Buffer) {
		if threshold > 0 {
			b.threshold = threshold
		}
	}
}
