package session

import (
	"time"

	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNavigator sets the redirect sink.
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) {
		if nav != nil {
			m.nav = nav
		}
	}
}

// WithAuthEventHook sets the auth transition observer.
func WithAuthEventHook(hook AuthEventHook) Option {
	return func(m *Manager) {
		m.authHook = hook
	}
}

// WithWarnWindow sets the expiring-soon lookahead window.
func WithWarnWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.warnWindow = d
		}
	}
}

// WithLandingPath sets the public page used after logout.
func WithLandingPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.landingPath = path
		}
	}
}

// WithLoginPath sets the page used for forced-logout redirects.
func WithLoginPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.loginPath = path
		}
	}
}

// WithProtectedClassifier sets the predicate that marks pages as owner-only.
func WithProtectedClassifier(fn func(path string) bool) Option {
	return func(m *Manager) {
		if fn != nil {
			m.isProtected = fn
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}
