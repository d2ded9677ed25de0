// Package simulate drives synthetic visitor traffic through the portalkit
// client against a live backend. Each visitor gets its own client instance
// and walks a randomized journey of page views, searches, job interactions,
// and the occasional login attempt.
package simulate

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rozgarlabs/portalkit/internal/analytics"
	"github.com/rozgarlabs/portalkit/internal/app"
	"github.com/rozgarlabs/portalkit/internal/config"
	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Run executes the complete simulation.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{
		StartTime:       time.Now(),
		VisitorsPlanned: cfg.Visitors,
	}

	logger.Get().Info(ctx, "starting portal traffic simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("visitors", cfg.Visitors),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Int("loginPct", cfg.LoginPct))

	if err := runVisitors(ctx, cfg, stats); err != nil {
		return fmt.Errorf("visitor simulation failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed")
	return nil
}

// runVisitors fans visitor journeys out over the worker pool.
func runVisitors(ctx context.Context, cfg *Config, stats *Stats) error {
	workerCount := minInt(cfg.Workers, cfg.Visitors)
	if workerCount < 1 {
		workerCount = 1
	}

	var (
		completed atomic.Int64
		failed    atomic.Int64
		queued    atomic.Int64
		logins    atomic.Int64
		searches  atomic.Int64
	)

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				journey := newJourney(i, cfg)
				n, loggedIn, err := runJourney(ctx, cfg, journey)
				queued.Add(int64(n))
				searches.Add(1)
				if journey.TryLogin {
					logins.Add(1)
				}
				if err != nil {
					failed.Add(1)
					logger.Get().Warn(ctx, "visitor journey failed",
						logger.String("visitor", journey.VisitorID),
						logger.Error(err))
					continue
				}
				completed.Add(1)
				if cfg.Verbose {
					logger.Get().Debug(ctx, "visitor journey completed",
						logger.String("visitor", journey.VisitorID),
						logger.Int("eventsQueued", n),
						logger.Bool("loggedIn", loggedIn))
				}
			}
		}()
	}

	for i := 0; i < cfg.Visitors; i++ {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return fmt.Errorf("context cancelled during simulation: %w", ctx.Err())
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	stats.VisitorsCompleted = int(completed.Load())
	stats.VisitorsFailed = int(failed.Load())
	stats.EventsQueued = int(queued.Load())
	stats.LoginsAttempted = int(logins.Load())
	stats.SearchesRun = int(searches.Load())
	return nil
}

// runJourney walks one visitor through its journey. Returns the number of
// events the visitor queued and whether a login succeeded.
func runJourney(ctx context.Context, cfg *Config, j Journey) (int, bool, error) {
	vcfg := config.New()
	vcfg.BaseURL = cfg.BaseURL
	vcfg.StateDir = filepath.Join(cfg.StateDir, j.VisitorID)
	vcfg.RequestTimeoutMS = int(cfg.Timeout.Milliseconds())

	svc := app.New(
		app.WithConfig(vcfg),
		app.WithPageContext(j.Page),
		app.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err := svc.Start(ctx); err != nil {
		return 0, false, fmt.Errorf("start client for %s: %w", j.VisitorID, err)
	}
	defer svc.Stop()

	events := svc.Analytics()
	sessions := svc.Session()
	sessions.SetCurrentPage(j.Page.Path)

	events.TrackSearch(ctx, j.Query, int(getRandomFloat()*50), map[string]any{
		"city": j.City,
	})
	events.TrackJobInteraction(ctx, j.JobID, j.Interaction, nil)
	events.ObserveClick(ctx, analytics.Element{
		Tag:     "div",
		Classes: []string{"job-card"},
		Text:    j.Query,
	})
	events.ObserveScroll(ctx, j.ScrollDepth)
	events.TrackFormSubmission(ctx, "job_alert", map[string]any{
		"email": j.Email,
		"city":  j.City,
	})

	loggedIn := false
	if j.TryLogin {
		res := sessions.Login(ctx, j.Email, j.Password, false)
		loggedIn = res.Success
	}

	// session_start + page_view from startup, four explicit tracks, one
	// scroll_depth per quartile reached, plus user_auth on login.
	queued := 6 + j.ScrollDepth/25
	if loggedIn {
		queued++
	}

	events.Flush(ctx)
	return queued, loggedIn, nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, visitorsPerSecond float64

	if stats.VisitorsPlanned > 0 {
		successRate = float64(stats.VisitorsCompleted) / float64(stats.VisitorsPlanned) * 100
	}
	if stats.Duration > 0 {
		visitorsPerSecond = float64(stats.VisitorsCompleted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("visitorsPlanned", stats.VisitorsPlanned),
		logger.Int("visitorsCompleted", stats.VisitorsCompleted),
		logger.Int("visitorsFailed", stats.VisitorsFailed),
		logger.Int("loginsAttempted", stats.LoginsAttempted),
		logger.Int("searchesRun", stats.SearchesRun),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("visitorsPerSecond", visitorsPerSecond))
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
