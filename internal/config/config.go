// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import "strings"

// Config contains client configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the portal backend base URL, e.g. "https://api.rozgar.example".
	// Injected here instead of sniffed from the runtime environment.
	BaseURL string `koanf:"base_url"`

	// StateDir is where durable client state (session, analytics id) is kept.
	// Empty means the OS user config dir is used.
	StateDir string `koanf:"state_dir"`

	// FlushIntervalMS is the periodic analytics flush interval.
	FlushIntervalMS int `koanf:"flush_interval_ms"`

	// BatchThreshold triggers an early flush once this many events are buffered.
	BatchThreshold int `koanf:"batch_threshold"`

	// QueueSize bounds the in-memory event buffer.
	QueueSize int `koanf:"queue_size"`

	// RequestTimeoutMS bounds individual backend HTTP calls.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// TeardownTimeoutMS bounds the final best-effort flush at shutdown.
	TeardownTimeoutMS int `koanf:"teardown_timeout_ms"`

	// TokenWarnWindowMS is the lookahead window for the expiring-soon warning.
	TokenWarnWindowMS int `koanf:"token_warn_window_ms"`

	// LandingPath is the public page users are sent to after logout.
	LandingPath string `koanf:"landing_path"`

	// ProtectedSegments marks owner-only path segments that force a
	// redirect to the landing page on logout.
	ProtectedSegments []string `koanf:"protected_segments"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		BaseURL:           "http://localhost:8000/api/v1",
		StateDir:          "",
		FlushIntervalMS:   5_000,
		BatchThreshold:    10,
		QueueSize:         1_000,
		RequestTimeoutMS:  10_000,
		TeardownTimeoutMS: 2_000,
		TokenWarnWindowMS: 300_000,
		LandingPath:       "/index.html",
		ProtectedSegments: []string{"dashboard", "admin", "employer", "profile", "applications"},
	}
}

// IsProtectedPath reports whether a page path contains an owner-only segment.
func (c *Config) IsProtectedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, seg := range c.ProtectedSegments {
		if strings.Contains(lower, strings.ToLower(seg)) {
			return true
		}
	}
	return false
}
