package sync

import "time"

// Config controls engine behavior. Zero values fall back to the defaults.
type Config struct {
	// MaxAttempts is the delivery attempt budget per operation before it is
	// moved to the failed set.
	MaxAttempts int

	// BatchSize bounds how many operations one drain pass dispatches before
	// re-snapshotting the queue. Newly enqueued higher-priority work becomes
	// visible between batches.
	BatchSize int

	// RetryBaseDelay is the first retry backoff interval.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the exponential backoff.
	RetryMaxDelay time.Duration

	// ErrorLogSize bounds the retained per-operation error entries.
	ErrorLogSize int

	// SyncOnReconnect triggers a drain on the offline-to-online transition
	// once Start has been called.
	SyncOnReconnect bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		BatchSize:       50,
		RetryBaseDelay:  500 * time.Millisecond,
		RetryMaxDelay:   30 * time.Second,
		ErrorLogSize:    50,
		SyncOnReconnect: true,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = def.RetryBaseDelay
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = def.RetryMaxDelay
	}
	if c.ErrorLogSize <= 0 {
		c.ErrorLogSize = def.ErrorLogSize
	}
	return c
}
