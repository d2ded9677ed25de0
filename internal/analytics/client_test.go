package analytics_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rozgarlabs/portalkit/internal/adapters/storage"
	"github.com/rozgarlabs/portalkit/internal/analytics"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/internal/domain/platform"
	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// captureSink records everything delivered through either path.
type captureSink struct {
	mu     sync.Mutex
	events []model.Event
	finals []model.Event
}

func (s *captureSink) Deliver(_ context.Context, events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *captureSink) DeliverFinal(_ context.Context, events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finals = append(s.finals, events...)
	return nil
}

func (s *captureSink) all() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...)
}

func (s *captureSink) allFinal() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.finals...)
}

func (s *captureSink) byName(name string) []model.Event {
	var out []model.Event
	for _, e := range append(s.all(), s.allFinal()...) {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeIdentity struct{ user *model.User }

func (f fakeIdentity) CurrentUser(context.Context) *model.User { return f.user }

func testPage() analytics.PageContext {
	return analytics.PageContext{
		Path:           "/jobs.html",
		Title:          "Jobs",
		Referrer:       "https://google.com",
		Language:       "en-PK",
		ViewportWidth:  1366,
		ViewportHeight: 768,
		Platform:       platform.ClientInfo{UserAgent: "Mozilla/5.0 (Windows NT 10.0)"},
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestInitialize(t *testing.T) {
	convey.Convey("Given an analytics client", t, func() {
		ctx := context.Background()
		durable := storage.NewMemoryStore()
		sink := &captureSink{}
		c := analytics.New(sink, durable, analytics.WithFlushInterval(time.Hour))

		convey.Convey("When initialized", func() {
			convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
			defer func() { _ = c.Destroy(ctx) }()

			convey.Convey("Then identifiers are minted with their prefixes", func() {
				convey.So(strings.HasPrefix(c.SessionID(), "sess_"), convey.ShouldBeTrue)
				convey.So(strings.HasPrefix(c.UserID(), "anon_"), convey.ShouldBeTrue)
			})

			convey.Convey("Then the visitor id is persisted durably", func() {
				v, ok, err := durable.Get(ctx, storage.KeyAnalyticsUserID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, c.UserID())
			})

			convey.Convey("Then session_start and page_view are queued", func() {
				convey.So(c.QueueLen(), convey.ShouldEqual, 2)
			})

			convey.Convey("Then a second Initialize is a no-op", func() {
				sid := c.SessionID()
				convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
				convey.So(c.SessionID(), convey.ShouldEqual, sid)
				convey.So(c.QueueLen(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a second client starts over the same durable store", func() {
			convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
			firstUser := c.UserID()
			firstSession := c.SessionID()
			_ = c.Destroy(ctx)

			c2 := analytics.New(&captureSink{}, durable, analytics.WithFlushInterval(time.Hour))
			convey.So(c2.Initialize(ctx, testPage()), convey.ShouldBeNil)
			defer func() { _ = c2.Destroy(ctx) }()

			convey.Convey("Then the visitor id is reused but the session is fresh", func() {
				convey.So(c2.UserID(), convey.ShouldEqual, firstUser)
				convey.So(c2.SessionID(), convey.ShouldNotEqual, firstSession)
			})
		})
	})
}

func TestTracking(t *testing.T) {
	convey.Convey("Given an initialized analytics client", t, func() {
		ctx := context.Background()
		sink := &captureSink{}
		c := analytics.New(sink, storage.NewMemoryStore(),
			analytics.WithFlushInterval(time.Hour),
			analytics.WithBatchThreshold(100),
		)
		convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
		defer func() { _ = c.Destroy(ctx) }()

		convey.Convey("When events are tracked and flushed", func() {
			c.TrackJobInteraction(ctx, "job-42", "apply", nil)
			c.TrackSearch(ctx, "software engineer", 17, map[string]any{"city": "Lahore"})
			c.Flush(ctx)

			convey.Convey("Then the batch carries full ambient context", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("job_apply")) == 1 }), convey.ShouldBeTrue)

				job := sink.byName("job_apply")[0]
				convey.So(job.Type, convey.ShouldEqual, model.EventJobInteraction)
				convey.So(job.Page, convey.ShouldEqual, "/jobs.html")
				convey.So(job.SessionID, convey.ShouldEqual, c.SessionID())
				convey.So(job.UserID, convey.ShouldEqual, c.UserID())
				convey.So(job.Properties["job_id"], convey.ShouldEqual, "job-42")
				convey.So(job.Properties["interaction"], convey.ShouldEqual, "apply")

				search := sink.byName("search")[0]
				convey.So(search.Properties["query"], convey.ShouldEqual, "software engineer")
				convey.So(search.Properties["result_count"], convey.ShouldEqual, 17)
			})

			convey.Convey("Then the startup page_view captured the environment", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("page_view")) == 1 }), convey.ShouldBeTrue)
				pv := sink.byName("page_view")[0]
				convey.So(pv.Properties["title"], convey.ShouldEqual, "Jobs")
				convey.So(pv.Properties["viewport"], convey.ShouldEqual, "1366x768")
				convey.So(pv.Properties["platform"], convey.ShouldEqual, "windows")
			})
		})

		convey.Convey("When a form submission carries sensitive fields", func() {
			c.TrackFormSubmission(ctx, "login_form", map[string]any{
				"email":    "ali@example.com",
				"password": "hunter2",
			})
			c.Flush(ctx)

			convey.Convey("Then the sensitive keys never reach the sink", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("form_submission")) == 1 }), convey.ShouldBeTrue)
				form := sink.byName("form_submission")[0]
				fields, ok := form.Properties["fields"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(fields, convey.ShouldNotContainKey, "password")
				convey.So(fields["email"], convey.ShouldEqual, "ali@example.com")
				convey.So(form.Properties["field_count"], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When scroll depth is observed repeatedly", func() {
			c.ObserveScroll(ctx, 60)
			c.ObserveScroll(ctx, 60)
			c.ObserveScroll(ctx, 100)
			c.Flush(ctx)

			convey.Convey("Then each quartile is reported exactly once", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("scroll_depth")) == 4 }), convey.ShouldBeTrue)
				seen := map[int]int{}
				for _, e := range sink.byName("scroll_depth") {
					depth, _ := e.Properties["depth_percent"].(int)
					seen[depth]++
				}
				convey.So(seen[25], convey.ShouldEqual, 1)
				convey.So(seen[50], convey.ShouldEqual, 1)
				convey.So(seen[75], convey.ShouldEqual, 1)
				convey.So(seen[100], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When clicks are observed", func() {
			c.ObserveClick(ctx, analytics.Element{
				Tag:  "button",
				Text: "Apply Now",
				Ancestors: []analytics.Element{
					{Tag: "div", Classes: []string{"job-card"}},
				},
			})
			c.Flush(ctx)

			convey.Convey("Then the job card wins the classification", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("job_card_click")) == 1 }), convey.ShouldBeTrue)
			})
		})
	})
}

func TestIdentityAttachment(t *testing.T) {
	convey.Convey("Given a logged-in identity source", t, func() {
		ctx := context.Background()
		sink := &captureSink{}
		c := analytics.New(sink, storage.NewMemoryStore(),
			analytics.WithFlushInterval(time.Hour),
			analytics.WithBatchThreshold(100),
			analytics.WithIdentitySource(fakeIdentity{user: &model.User{PublicID: "u-7", Role: "employer"}}),
		)
		convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
		defer func() { _ = c.Destroy(ctx) }()

		convey.Convey("When any event is tracked", func() {
			c.Track(ctx, "custom_thing", nil)
			c.Flush(ctx)

			convey.Convey("Then the authenticated id rides along with the anonymous one", func() {
				convey.So(waitFor(func() bool { return len(sink.byName("custom_thing")) == 1 }), convey.ShouldBeTrue)
				ev := sink.byName("custom_thing")[0]
				convey.So(ev.Properties["auth_user_id"], convey.ShouldEqual, "u-7")
				convey.So(strings.HasPrefix(ev.UserID, "anon_"), convey.ShouldBeTrue)
			})
		})
	})
}

func TestThresholdFlush(t *testing.T) {
	convey.Convey("Given a small batch threshold", t, func() {
		ctx := context.Background()
		sink := &captureSink{}
		c := analytics.New(sink, storage.NewMemoryStore(),
			analytics.WithFlushInterval(time.Hour),
			analytics.WithBatchThreshold(3),
		)
		convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
		defer func() { _ = c.Destroy(ctx) }()

		convey.Convey("When the queue reaches the threshold", func() {
			c.Track(ctx, "third_event", nil)

			convey.Convey("Then delivery happens without waiting for the timer", func() {
				convey.So(waitFor(func() bool { return c.QueueLen() == 0 }), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return len(sink.byName("third_event")) == 1 }), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDestroy(t *testing.T) {
	convey.Convey("Given an initialized client with buffered events", t, func() {
		ctx := context.Background()
		sink := &captureSink{}
		c := analytics.New(sink, storage.NewMemoryStore(),
			analytics.WithFlushInterval(time.Hour),
			analytics.WithBatchThreshold(100),
		)
		convey.So(c.Initialize(ctx, testPage()), convey.ShouldBeNil)
		c.Track(ctx, "pending", nil)

		convey.Convey("When the client is destroyed", func() {
			convey.So(c.Destroy(ctx), convey.ShouldBeNil)

			convey.Convey("Then the final batch leaves on the fire-and-forget path", func() {
				finals := sink.allFinal()
				convey.So(len(finals), convey.ShouldBeGreaterThanOrEqualTo, 3)

				names := map[string]bool{}
				for _, e := range finals {
					names[e.Name] = true
				}
				convey.So(names["session_start"], convey.ShouldBeTrue)
				convey.So(names["pending"], convey.ShouldBeTrue)
				convey.So(names["time_on_page"], convey.ShouldBeTrue)
			})

			convey.Convey("Then tracking after destroy is a silent no-op", func() {
				before := len(sink.all()) + len(sink.allFinal())
				c.Track(ctx, "late", nil)
				convey.So(len(sink.all())+len(sink.allFinal()), convey.ShouldEqual, before)
			})

			convey.Convey("Then a second destroy is harmless", func() {
				convey.So(c.Destroy(ctx), convey.ShouldBeNil)
			})
		})
	})
}
