package app_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rozgarlabs/portalkit/internal/analytics"
	"github.com/rozgarlabs/portalkit/internal/app"
	"github.com/rozgarlabs/portalkit/internal/config"
	"github.com/rozgarlabs/portalkit/internal/domain/roles"
	"github.com/rozgarlabs/portalkit/internal/session"
	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// portalBackend counts ingestion traffic and serves a canned login.
type portalBackend struct {
	mu          sync.Mutex
	tracked     int
	batchEvents int
}

func (p *portalBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analytics/track", func(w http.ResponseWriter, _ *http.Request) {
		p.mu.Lock()
		p.tracked++
		p.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/analytics/track/batch", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Events []json.RawMessage `json:"events"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.mu.Lock()
		p.batchEvents += len(body.Events)
		p.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
		payload := base64.RawURLEncoding.EncodeToString([]byte(
			fmt.Sprintf(`{"sub":"u-1","exp":%d}`, time.Now().Add(time.Hour).Unix())))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"access_token": header + "." + payload + ".sig",
			"user": map[string]any{
				"id": 1, "user_id": "u-1", "email": "ali@example.com",
				"name": "Ali", "role": "job_seeker",
			},
		})
	})
	return mux
}

func (p *portalBackend) delivered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracked + p.batchEvents
}

func newTestService(t *testing.T, srvURL string, nav session.Navigator) *app.Service {
	t.Helper()
	cfg := config.New()
	cfg.BaseURL = srvURL
	cfg.StateDir = t.TempDir()
	cfg.FlushIntervalMS = 3_600_000

	return app.New(
		app.WithConfig(cfg),
		app.WithNavigator(nav),
		app.WithPageContext(analytics.PageContext{Path: "/index.html", Title: "Home"}),
	)
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a wired portalkit service", t, func() {
		ctx := context.Background()
		be := &portalBackend{}
		srv := httptest.NewServer(be.handler())
		defer srv.Close()

		svc := newTestService(t, srv.URL, session.NavigatorFunc(func(string) {}))

		convey.Convey("When started", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then both subsystems are live", func() {
				convey.So(svc.Session(), convey.ShouldNotBeNil)
				convey.So(svc.Analytics(), convey.ShouldNotBeNil)
				convey.So(svc.Analytics().SessionID(), convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then stats reflect the running state", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["loggedIn"], convey.ShouldBeFalse)
				convey.So(stats["sessionID"], convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then a second Start is a no-op", func() {
				sid := svc.Analytics().SessionID()
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				convey.So(svc.Analytics().SessionID(), convey.ShouldEqual, sid)
			})
		})

		convey.Convey("When stopped", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			svc.Stop()

			convey.Convey("Then buffered events were delivered on the way out", func() {
				convey.So(be.delivered(), convey.ShouldBeGreaterThanOrEqualTo, 2)
				convey.So(svc.GetStats()["started"], convey.ShouldBeFalse)
			})

			convey.Convey("Then a second Stop is harmless", func() {
				svc.Stop()
			})
		})
	})
}

func TestServiceAuthFlow(t *testing.T) {
	convey.Convey("Given a running service", t, func() {
		ctx := context.Background()
		be := &portalBackend{}
		srv := httptest.NewServer(be.handler())
		defer srv.Close()

		var navigated string
		svc := newTestService(t, srv.URL, session.NavigatorFunc(func(p string) { navigated = p }))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a user logs in through the session manager", func() {
			res := svc.Session().Login(ctx, "ali@example.com", "pass", false)

			convey.Convey("Then the login lands on the role dashboard", func() {
				convey.So(res.Success, convey.ShouldBeTrue)
				convey.So(navigated, convey.ShouldEqual, roles.JobSeekerDashboard)
			})

			convey.Convey("Then stats and analytics see the identity", func() {
				convey.So(svc.GetStats()["loggedIn"], convey.ShouldBeTrue)
			})
		})
	})
}
