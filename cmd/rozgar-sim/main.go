package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rozgarlabs/portalkit/internal/simulate"
	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Default configuration constants.
const (
	defaultVisitors   = 100
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultLoginPct   = 20
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000/api/v1", "Base URL of the portal backend")
		visitors = flag.Int("visitors", defaultVisitors, "Number of visitor journeys to simulate")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		stateDir = flag.String("state", "", "Root directory for per-visitor durable state (default: temp dir)")
		loginPct = flag.Int("login-pct", defaultLoginPct, "Percentage of visitors that attempt a login")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	// Root context with cancel on SIGINT/SIGTERM plus an overall deadline.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	dir := *stateDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "rozgar-sim")
	}

	cfg := &simulate.Config{
		BaseURL:  *baseURL,
		Visitors: *visitors,
		Workers:  *workers,
		Timeout:  *timeout,
		StateDir: dir,
		LoginPct: *loginPct,
		Verbose:  *verbose,
	}

	if err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		return
	}
}
