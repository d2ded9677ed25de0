// Package analytics collects behavioral events and delivers them to the
// portal ingestion backend on a best-effort basis.
//
// Events are buffered in memory and flushed on a timer, early when the
// buffer reaches its threshold, and one final time at teardown. Delivery
// failures are recovered internally; nothing in this package is allowed to
// surface an error to the hosting application's users.
package analytics

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rozgarlabs/portalkit/internal/adapters/buffer"
	"github.com/rozgarlabs/portalkit/internal/adapters/flusher"
	"github.com/rozgarlabs/portalkit/internal/adapters/storage"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/internal/domain/platform"
	"github.com/rozgarlabs/portalkit/internal/domain/redact"
	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/rozgarlabs/portalkit/pkg/metrics"
)

// Default analytics configuration constants.
const (
	defaultFlushInterval   = 5 * time.Second
	defaultBatchThreshold  = 10
	defaultQueueCapacity   = 1_000
	defaultTeardownTimeout = 2 * time.Second
	sessionIDRandomBytes   = 4
)

// IdentitySource exposes the authenticated user, read-only. The session
// manager satisfies this.
type IdentitySource interface {
	CurrentUser(ctx context.Context) *model.User
}

// PageContext describes the page/environment the client is embedded in.
type PageContext struct {
	Path           string
	Title          string
	Referrer       string
	Language       string
	ViewportWidth  int
	ViewportHeight int
	Platform       platform.ClientInfo
}

// Client is the analytics event pipeline. It is safe for concurrent use.
type Client struct {
	mu          sync.Mutex
	initialized bool

	sessionID string
	userID    string

	sink     flusher.Sink
	durable  storage.Store
	identity IdentitySource
	logger   logger.Logger

	buf       *buffer.Buffer
	fl        *flusher.Flusher
	runCancel context.CancelFunc

	flushInterval   time.Duration
	batchThreshold  int
	queueCapacity   int
	teardownTimeout time.Duration

	page          PageContext
	pageEnteredAt time.Time
	quartilesSeen map[int]bool
}

// New creates an analytics client with configuration options. Nothing runs
// until Initialize is called.
func New(sink flusher.Sink, durable storage.Store, opts ...Option) *Client {
	c := &Client{
		sink:            sink,
		durable:         durable,
		logger:          logger.Get().Named("analytics"),
		flushInterval:   defaultFlushInterval,
		batchThreshold:  defaultBatchThreshold,
		queueCapacity:   defaultQueueCapacity,
		teardownTimeout: defaultTeardownTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Initialize starts the pipeline. It is idempotent: a second call while
// initialized is a no-op. A fresh per-process session id is generated and
// the durable pseudo-anonymous visitor id is created on first use and
// reused forever after, so events correlate across logged-out and
// logged-in states.
func (c *Client) Initialize(ctx context.Context, page PageContext) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}

	userID, err := c.loadOrCreateUserID(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.userID = userID
	c.sessionID = newSessionID()
	c.page = page
	c.pageEnteredAt = time.Now()
	c.quartilesSeen = make(map[int]bool)

	c.buf = buffer.New(
		buffer.WithCapacity(c.queueCapacity),
		buffer.WithThreshold(c.batchThreshold),
	)
	c.fl = flusher.New(c.buf, c.sink,
		flusher.WithInterval(c.flushInterval),
		flusher.WithTeardownTimeout(c.teardownTimeout),
		flusher.WithLogger(c.logger.Named("flusher")),
	)

	runCtx, cancel := context.WithCancel(context.Background())
	c.runCancel = cancel
	go c.fl.Run(runCtx)

	c.initialized = true
	c.mu.Unlock()

	c.logger.Info(ctx, "analytics client initialized",
		logger.String("sessionID", c.sessionID),
		logger.Duration("flushInterval", c.flushInterval),
	)

	c.enqueue(ctx, model.EventSessionStart, "session_start", nil)
	c.TrackPageView(ctx)
	return nil
}

// Track enqueues a custom event with ambient context attached.
func (c *Client) Track(ctx context.Context, name string, props map[string]any) {
	c.enqueue(ctx, model.EventCustom, name, props)
}

// TrackPageView captures the navigation context of the current page.
// Platform detection degrades through its fallback chain and never fails.
func (c *Client) TrackPageView(ctx context.Context) {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()

	props := map[string]any{
		"title":    page.Title,
		"referrer": page.Referrer,
		"language": page.Language,
		"viewport": fmt.Sprintf("%dx%d", page.ViewportWidth, page.ViewportHeight),
		"platform": platform.Detect(page.Platform),
	}
	c.enqueue(ctx, model.EventPageView, "page_view", props)
}

// TrackJobInteraction records an interaction with a job posting.
func (c *Client) TrackJobInteraction(ctx context.Context, jobID, kind string, props map[string]any) {
	merged := map[string]any{
		"job_id":      jobID,
		"interaction": kind,
	}
	for k, v := range props {
		merged[k] = v
	}
	c.enqueue(ctx, model.EventJobInteraction, "job_"+kind, merged)
}

// TrackSearch records a search with its result count and filters.
func (c *Client) TrackSearch(ctx context.Context, query string, resultCount int, filters map[string]any) {
	c.enqueue(ctx, model.EventSearch, "search", map[string]any{
		"query":        query,
		"result_count": resultCount,
		"filters":      filters,
	})
}

// TrackFormSubmission records a form submission. Fields whose names match
// the sensitive pattern are dropped before the event is queued.
func (c *Client) TrackFormSubmission(ctx context.Context, formName string, fields map[string]any) {
	clean, dropped := redact.Fields(fields)
	if dropped {
		metrics.RecordEventRedacted()
	}
	c.enqueue(ctx, model.EventFormSubmission, "form_submission", map[string]any{
		"form_name":   formName,
		"fields":      clean,
		"field_count": len(clean),
	})
}

// TrackAuth records an auth-state transition (login, logout, register).
func (c *Client) TrackAuth(ctx context.Context, action string, user *model.User) {
	props := map[string]any{"action": action}
	if user != nil {
		props["role"] = user.Role
	}
	c.enqueue(ctx, model.EventUserAuth, "user_auth", props)
}

// ObserveClick classifies and records an interaction with a UI element.
func (c *Client) ObserveClick(ctx context.Context, el Element) {
	name, props := Classify(el)
	c.enqueue(ctx, model.EventCustom, name, props)
}

// ObserveScroll records quartile scroll-depth milestones (25/50/75/100),
// each at most once per page.
func (c *Client) ObserveScroll(ctx context.Context, depthPercent int) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return
	}
	var reached []int
	for _, q := range []int{25, 50, 75, 100} {
		if depthPercent >= q && !c.quartilesSeen[q] {
			c.quartilesSeen[q] = true
			reached = append(reached, q)
		}
	}
	c.mu.Unlock()

	for _, q := range reached {
		c.enqueue(ctx, model.EventCustom, "scroll_depth", map[string]any{"depth_percent": q})
	}
}

// Flush forces a synchronous delivery attempt of everything buffered.
func (c *Client) Flush(ctx context.Context) {
	c.mu.Lock()
	fl := c.fl
	c.mu.Unlock()
	if fl != nil {
		fl.Flush(ctx)
	}
}

// Destroy records time-on-page, stops the flush loop, performs the final
// best-effort delivery, and leaves the client re-initializable.
func (c *Client) Destroy(ctx context.Context) error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return nil
	}
	elapsed := time.Since(c.pageEnteredAt)
	fl := c.fl
	cancel := c.runCancel
	c.mu.Unlock()

	c.enqueue(ctx, model.EventCustom, "time_on_page", map[string]any{
		"seconds": int(elapsed.Seconds()),
	})

	cancel()
	err := fl.Shutdown(ctx)

	c.mu.Lock()
	c.initialized = false
	c.buf = nil
	c.fl = nil
	c.runCancel = nil
	c.mu.Unlock()

	if err != nil {
		// Analytics failures never propagate to the host beyond a log line.
		c.logger.Warn(ctx, "final flush incomplete", logger.Error(err))
	}
	return nil
}

// SessionID returns the per-process session identifier.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// UserID returns the durable pseudo-anonymous visitor identifier.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// QueueLen returns the number of events awaiting delivery.
func (c *Client) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return 0
	}
	return c.buf.Len()
}

// enqueue builds an immutable event with ambient context and buffers it.
// Buffer-full is absorbed silently; it is already counted in metrics.
func (c *Client) enqueue(ctx context.Context, t model.EventType, name string, props map[string]any) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return
	}
	sid, uid, page := c.sessionID, c.userID, c.page.Path
	buf := c.buf
	identity := c.identity
	c.mu.Unlock()

	merged := make(map[string]any, len(props)+1)
	for k, v := range props {
		merged[k] = v
	}
	if identity != nil {
		if u := identity.CurrentUser(ctx); u != nil {
			merged["auth_user_id"] = u.PublicID
		}
	}

	ev := model.NewEvent(t, name, page, sid, uid, merged)
	if !buf.Enqueue(ctx, ev) {
		c.logger.Debug(ctx, "event dropped", logger.String("name", name))
	}
}

// loadOrCreateUserID fetches the durable anonymous visitor id, creating and
// persisting one on first use. Held under c.mu.
func (c *Client) loadOrCreateUserID(ctx context.Context) (string, error) {
	existing, ok, err := c.durable.Get(ctx, storage.KeyAnalyticsUserID)
	if err != nil {
		return "", fmt.Errorf("load analytics user id: %w", err)
	}
	if ok && existing != "" {
		return existing, nil
	}

	id := "anon_" + uuid.New().String()
	if err := c.durable.Set(ctx, storage.KeyAnalyticsUserID, id); err != nil {
		return "", fmt.Errorf("persist analytics user id: %w", err)
	}
	return id, nil
}

// newSessionID generates a random, time-seeded session identifier. Stable
// for the lifetime of the client process.
func newSessionID() string {
	b := make([]byte, sessionIDRandomBytes)
	_, _ = rand.Read(b)
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
