// Package app assembles the portalkit client: storage scopes, backend
// transport, session manager, and analytics pipeline, behind one
// Start/Stop lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rozgarlabs/portalkit/internal/adapters/rest"
	"github.com/rozgarlabs/portalkit/internal/adapters/storage"
	"github.com/rozgarlabs/portalkit/internal/analytics"
	"github.com/rozgarlabs/portalkit/internal/config"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/internal/session"
	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Service owns the SDK component graph and its lifecycle.
type Service struct {
	mu sync.RWMutex

	// Configuration
	cfg        *config.Config
	nav        session.Navigator
	httpClient *http.Client
	page       analytics.PageContext

	// Components
	durable   storage.Store
	ephemeral storage.Store
	api       *rest.Client
	sessions  *session.Manager
	events    *analytics.Client

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithNavigator sets the redirect sink passed to the session manager.
func WithNavigator(nav session.Navigator) Option {
	return func(s *Service) {
		if nav != nil {
			s.nav = nav
		}
	}
}

// WithHTTPClient replaces the transport's underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithPageContext sets the page/environment context used at startup.
func WithPageContext(page analytics.PageContext) Option {
	return func(s *Service) {
		s.page = page
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		nav: session.NavigatorFunc(func(string) {}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds and starts the component graph. Calling Start on a started
// service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	durable, err := storage.NewFileStore(s.cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open durable store: %w", err)
	}
	s.durable = durable
	s.ephemeral = storage.NewMemoryStore()

	restOpts := []rest.Option{
		rest.WithTimeout(time.Duration(s.cfg.RequestTimeoutMS) * time.Millisecond),
	}
	if s.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(s.httpClient))
	}
	s.api = rest.New(s.cfg.BaseURL, restOpts...)

	s.sessions = session.New(s.api, s.durable, s.ephemeral,
		session.WithNavigator(s.nav),
		session.WithWarnWindow(time.Duration(s.cfg.TokenWarnWindowMS)*time.Millisecond),
		session.WithLandingPath(s.cfg.LandingPath),
		session.WithProtectedClassifier(s.cfg.IsProtectedPath),
		session.WithAuthEventHook(s.onAuthEvent),
	)

	s.events = analytics.New(analytics.NewRestSink(s.api), s.durable,
		analytics.WithIdentitySource(s.sessions),
		analytics.WithFlushInterval(time.Duration(s.cfg.FlushIntervalMS)*time.Millisecond),
		analytics.WithBatchThreshold(s.cfg.BatchThreshold),
		analytics.WithQueueCapacity(s.cfg.QueueSize),
		analytics.WithTeardownTimeout(time.Duration(s.cfg.TeardownTimeoutMS)*time.Millisecond),
	)

	if err := s.events.Initialize(ctx, s.page); err != nil {
		return fmt.Errorf("initialize analytics: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "portalkit client started",
		logger.String("baseURL", s.cfg.BaseURL),
		logger.Int("batchThreshold", s.cfg.BatchThreshold),
	)
	return nil
}

// Stop tears the client down: final analytics flush, then component
// release. Safe to call on a stopped service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	if err := s.events.Destroy(ctx); err != nil {
		s.logger.Warn(ctx, "analytics teardown incomplete", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "portalkit client stopped")
}

// onAuthEvent forwards session transitions to the analytics pipeline.
func (s *Service) onAuthEvent(action string, user *model.User) {
	if s.events != nil {
		s.events.TrackAuth(context.Background(), action, user)
	}
}

// Session returns the session manager.
func (s *Service) Session() *session.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// Analytics returns the analytics client.
func (s *Service) Analytics() *analytics.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// GetStats returns client statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.events.QueueLen()
		stats["sessionID"] = s.events.SessionID()
		stats["loggedIn"] = s.sessions.IsLoggedIn(ctx)
	}
	return stats
}
