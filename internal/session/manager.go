// Package session owns the authenticated-user state machine.
//
// The manager is the single source of truth for who is logged in. Identity
// and token are persisted in either the durable or the ephemeral scope
// depending on "remember me", rehydrated lazily on first read, and cleared
// on logout, token expiry, or an expired-token response from the backend.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rozgarlabs/portalkit/internal/adapters/rest"
	"github.com/rozgarlabs/portalkit/internal/adapters/storage"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/internal/domain/roles"
	"github.com/rozgarlabs/portalkit/internal/domain/token"
	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/rozgarlabs/portalkit/pkg/metrics"
)

// Default session configuration constants.
const (
	defaultWarnWindow  = 5 * time.Minute
	defaultLandingPath = "/index.html"
	defaultLoginPath   = "/login.html"
)

// Navigator receives role-based redirect requests. Injected so the UI layer
// decides what "navigate" means for its platform.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// AuthEventHook observes auth-state transitions (login, logout, register)
// so the analytics layer can record them without a dependency cycle.
type AuthEventHook func(action string, user *model.User)

// Result is the discriminated outcome of a login or register attempt.
// Failures carry a user-facing message; they are values, never panics.
type Result struct {
	Success  bool
	Message  string
	Redirect string
}

// Registration carries the self-service registration fields.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	City      string
}

// Manager is the session state machine: LoggedOut -> LoggedIn(role) ->
// LoggedOut. Role is fixed for the lifetime of a session.
type Manager struct {
	mu sync.Mutex

	api       *rest.Client
	durable   storage.Store
	ephemeral storage.Store
	nav       Navigator
	authHook  AuthEventHook
	logger    logger.Logger

	warnWindow  time.Duration
	landingPath string
	loginPath   string
	isProtected func(path string) bool

	// In-memory session state
	user        *model.User
	accessToken string
	durableMode bool
	rehydrated  bool
	currentPage string
}

// New creates a session manager over the given transport and storage scopes.
func New(api *rest.Client, durable, ephemeral storage.Store, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		durable:     durable,
		ephemeral:   ephemeral,
		nav:         NavigatorFunc(func(string) {}),
		logger:      logger.Get().Named("session"),
		warnWindow:  defaultWarnWindow,
		landingPath: defaultLandingPath,
		loginPath:   defaultLoginPath,
		isProtected: func(string) bool { return false },
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SetCurrentPage records the page the host UI is currently on; logout uses
// it to decide whether a redirect to the landing page is needed.
func (m *Manager) SetCurrentPage(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPage = path
}

// CurrentPage returns the recorded page path.
func (m *Manager) CurrentPage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPage
}

// Login authenticates against the backend. Network failures degrade to a
// generic failure result; the manager never redirects on failure.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) Result {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		metrics.RecordLoginFailure()
		m.logger.Warn(ctx, "login transport failure", logger.Error(err))
		return Result{Success: false, Message: "Network error. Please check your connection and try again."}
	}
	if !resp.Success || resp.AccessToken == "" || resp.User == nil {
		metrics.RecordLoginFailure()
		msg := resp.Message
		if msg == "" {
			msg = "Login failed. Please try again."
		}
		return Result{Success: false, Message: msg}
	}

	m.establish(ctx, resp.User, resp.AccessToken, remember)
	metrics.RecordLogin()
	m.fireAuthHook("login", resp.User)

	dest := roles.DashboardFor(resp.User.Role, resp.User.Email)
	m.nav.Navigate(dest)
	return Result{Success: true, Redirect: dest}
}

// Register creates an account and, on success, behaves like Login. The
// requested role is clamped to the self-service set before it ever reaches
// the backend, so a registration as "admin" lands as job_seeker.
func (m *Manager) Register(ctx context.Context, reg Registration) Result {
	clamped := roles.ForRegistration(reg.Role)
	resp, err := m.api.Register(ctx, rest.RegisterRequest{
		Email:     reg.Email,
		Password:  reg.Password,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		Role:      string(clamped),
		City:      reg.City,
	})
	if err != nil {
		metrics.RecordLoginFailure()
		m.logger.Warn(ctx, "register transport failure", logger.Error(err))
		return Result{Success: false, Message: "Network error. Please check your connection and try again."}
	}
	if !resp.Success || resp.AccessToken == "" || resp.User == nil {
		msg := resp.Message
		if strings.Contains(msg, "Role must be") {
			msg = "Please choose a valid account type."
		}
		if msg == "" {
			msg = "Registration failed. Please try again."
		}
		return Result{Success: false, Message: msg}
	}

	m.establish(ctx, resp.User, resp.AccessToken, false)
	metrics.RecordRegistration()
	m.fireAuthHook("register", resp.User)

	dest := roles.DashboardFor(resp.User.Role, resp.User.Email)
	m.nav.Navigate(dest)
	return Result{Success: true, Redirect: dest}
}

// Logout clears the session from memory and both storage scopes. The host
// is redirected to the landing page only when the current page is protected.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	user := m.user
	page := m.currentPage
	m.clearLocked(ctx)
	m.mu.Unlock()

	metrics.RecordLogout()
	m.fireAuthHook("logout", user)

	if m.isProtected(page) {
		m.nav.Navigate(m.landingPath)
	}
}

// IsLoggedIn reports whether an identity is held in memory or can be
// rehydrated from storage. Rehydration is attempted once and memoized.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rehydrateLocked(ctx)
	return m.user != nil
}

// CurrentUser returns a copy of the logged-in user record, or nil.
func (m *Manager) CurrentUser(ctx context.Context) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rehydrateLocked(ctx)
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the current access token, rehydrating if necessary.
func (m *Manager) Token(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rehydrateLocked(ctx)
	return m.accessToken
}

// HasRole reports whether the current user's role resolves to want.
// Matching is case-insensitive and synonym-tolerant, the same policy used
// for dashboard redirects.
func (m *Manager) HasRole(ctx context.Context, want roles.Role) bool {
	u := m.CurrentUser(ctx)
	return u != nil && roles.Matches(u.Role, want)
}

// IsAdmin reports whether the current user is an admin.
func (m *Manager) IsAdmin(ctx context.Context) bool { return m.HasRole(ctx, roles.Admin) }

// IsEmployer reports whether the current user is an employer.
func (m *Manager) IsEmployer(ctx context.Context) bool { return m.HasRole(ctx, roles.Employer) }

// IsJobSeeker reports whether the current user is a job seeker.
func (m *Manager) IsJobSeeker(ctx context.Context) bool { return m.HasRole(ctx, roles.JobSeeker) }

// ValidateToken decodes the token's expiry claim without verifying the
// signature. Malformed and expired tokens are invalid; a token expiring
// within the warning window stays valid but emits a non-blocking warning.
func (m *Manager) ValidateToken(ctx context.Context) bool {
	tok := m.Token(ctx)
	if tok == "" {
		return false
	}

	claims, err := token.Parse(tok)
	if err != nil {
		m.logger.Debug(ctx, "token unparseable", logger.Error(err))
		return false
	}

	now := time.Now()
	if claims.Expired(now) {
		return false
	}
	if claims.ExpiresWithin(now, m.warnWindow) {
		metrics.RecordTokenWarning()
		m.logger.Warn(ctx, "access token expiring soon",
			logger.Duration("remaining", time.Until(claims.Expiry())),
		)
	}
	return true
}

// Do performs an authenticated backend call. An invalid token forces logout
// before the call; a 401 whose message mentions expiry forces logout after
// it. Any other 401 leaves the session intact and returns ErrDenied.
func (m *Manager) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	tok := m.Token(ctx)
	if tok != "" && !m.ValidateToken(ctx) {
		m.forceLogout(ctx, "pre-flight token validation failed")
		return nil, ErrSessionExpired
	}

	resp, err := m.api.Do(ctx, method, path, body, tok)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		msg := strings.ToLower(rest.ErrorMessage(resp.Body))
		if strings.Contains(msg, "expired") {
			m.forceLogout(ctx, "backend reported expired token")
			return nil, ErrSessionExpired
		}
		return nil, ErrDenied
	}
	return resp.Body, nil
}

// establish stores identity and token in the scope chosen by remember and
// wipes the other scope so exactly one copy of the session exists.
func (m *Manager) establish(ctx context.Context, user *model.User, accessToken string, remember bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		m.logger.Error(ctx, "marshal user record", logger.Error(err))
		return
	}

	target, other := m.ephemeral, m.durable
	if remember {
		target, other = m.durable, m.ephemeral
	}
	if err := target.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		m.logger.Error(ctx, "persist user record", logger.Error(err))
	}
	if err := target.Set(ctx, storage.KeyAccessToken, accessToken); err != nil {
		m.logger.Error(ctx, "persist access token", logger.Error(err))
	}
	_ = other.Delete(ctx, storage.KeyUser)
	_ = other.Delete(ctx, storage.KeyAccessToken)

	m.user = user
	m.accessToken = accessToken
	m.durableMode = remember
	m.rehydrated = true
}

// rehydrateLocked restores a persisted session into memory, at most once.
// The ephemeral scope wins over the durable one. Held under m.mu.
func (m *Manager) rehydrateLocked(ctx context.Context) {
	if m.rehydrated || m.user != nil {
		return
	}
	m.rehydrated = true

	for _, scope := range []struct {
		store   storage.Store
		durable bool
	}{
		{m.ephemeral, false},
		{m.durable, true},
	} {
		rawUser, okUser, err := scope.store.Get(ctx, storage.KeyUser)
		if err != nil || !okUser {
			continue
		}
		tok, okTok, err := scope.store.Get(ctx, storage.KeyAccessToken)
		if err != nil || !okTok || tok == "" {
			continue
		}
		var u model.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			continue
		}
		m.user = &u
		m.accessToken = tok
		m.durableMode = scope.durable
		return
	}
}

// clearLocked wipes the session from memory and both scopes, preserving the
// durable anonymous analytics id. Held under m.mu.
func (m *Manager) clearLocked(ctx context.Context) {
	for _, s := range []storage.Store{m.ephemeral, m.durable} {
		_ = s.Delete(ctx, storage.KeyUser)
		_ = s.Delete(ctx, storage.KeyAccessToken)
	}
	m.user = nil
	m.accessToken = ""
	m.durableMode = false
	m.rehydrated = true
}

// forceLogout clears the session due to token failure and schedules a
// redirect to the login page.
func (m *Manager) forceLogout(ctx context.Context, reason string) {
	m.mu.Lock()
	m.clearLocked(ctx)
	m.mu.Unlock()

	metrics.RecordForcedLogout()
	metrics.RecordLogout()
	m.logger.Warn(ctx, "session cleared", logger.String("reason", reason))
	m.nav.Navigate(m.loginPath)
}

func (m *Manager) fireAuthHook(action string, user *model.User) {
	if m.authHook != nil {
		m.authHook(action, user)
	}
}
