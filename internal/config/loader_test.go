package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rozgarlabs/portalkit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "http://localhost:8000/api/v1")
				convey.So(cfg.FlushIntervalMS, convey.ShouldEqual, 5_000)
				convey.So(cfg.BatchThreshold, convey.ShouldEqual, 10)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
				convey.So(cfg.TokenWarnWindowMS, convey.ShouldEqual, 300_000)
				convey.So(cfg.LandingPath, convey.ShouldEqual, "/index.html")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ROZGAR_BASE_URL", "https://staging.example.com/api/v1")
			_ = os.Setenv("ROZGAR_BATCH_THRESHOLD", "25")
			_ = os.Setenv("ROZGAR_FLUSH_INTERVAL_MS", "2000")
			_ = os.Setenv("ROZGAR_QUEUE_SIZE", "500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "https://staging.example.com/api/v1")
				convey.So(cfg.BatchThreshold, convey.ShouldEqual, 25)
				convey.So(cfg.FlushIntervalMS, convey.ShouldEqual, 2000)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "base_url: https://file.example.com/api/v1\nbatch_threshold: 7\nlanding_path: /home.html\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ROZGAR_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "https://file.example.com/api/v1")
				convey.So(cfg.BatchThreshold, convey.ShouldEqual, 7)
				convey.So(cfg.LandingPath, convey.ShouldEqual, "/home.html")
			})
		})

		convey.Convey("When a file value is overridden by an env var", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("batch_threshold: 7\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ROZGAR_CONFIG", path)
			_ = os.Setenv("ROZGAR_BATCH_THRESHOLD", "42")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BatchThreshold, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When validation fails", func() {
			_ = os.Setenv("ROZGAR_BATCH_THRESHOLD", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestIsProtectedPath(t *testing.T) {
	convey.Convey("Given the default protected segments", t, func() {
		cfg := config.New()

		convey.Convey("Then owner-only pages are protected", func() {
			convey.So(cfg.IsProtectedPath("/admin-dashboard.html"), convey.ShouldBeTrue)
			convey.So(cfg.IsProtectedPath("/employer-dashboard.html"), convey.ShouldBeTrue)
			convey.So(cfg.IsProtectedPath("/Profile.html"), convey.ShouldBeTrue)
			convey.So(cfg.IsProtectedPath("/my/applications"), convey.ShouldBeTrue)
		})

		convey.Convey("Then public pages are not", func() {
			convey.So(cfg.IsProtectedPath("/index.html"), convey.ShouldBeFalse)
			convey.So(cfg.IsProtectedPath("/jobs.html"), convey.ShouldBeFalse)
			convey.So(cfg.IsProtectedPath(""), convey.ShouldBeFalse)
		})
	})
}

// clearConfigEnvVars removes all ROZGAR_ variables the loader reads.
func clearConfigEnvVars() {
	for _, key := range []string{
		"ROZGAR_CONFIG",
		"ROZGAR_LOG_LEVEL",
		"ROZGAR_BASE_URL",
		"ROZGAR_STATE_DIR",
		"ROZGAR_FLUSH_INTERVAL_MS",
		"ROZGAR_BATCH_THRESHOLD",
		"ROZGAR_QUEUE_SIZE",
		"ROZGAR_REQUEST_TIMEOUT_MS",
		"ROZGAR_TEARDOWN_TIMEOUT_MS",
		"ROZGAR_TOKEN_WARN_WINDOW_MS",
		"ROZGAR_LANDING_PATH",
	} {
		_ = os.Unsetenv(key)
	}
}
