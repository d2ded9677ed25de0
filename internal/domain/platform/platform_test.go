package platform_test

import (
	"testing"

	"github.com/rozgarlabs/portalkit/internal/domain/platform"
	"github.com/smartystreets/goconvey/convey"
)

func TestDetect(t *testing.T) {
	convey.Convey("Given client environment signals", t, func() {
		convey.Convey("When structured client hints are present", func() {
			got := platform.Detect(platform.ClientInfo{
				HintsPlatform:  "Windows",
				LegacyPlatform: "MacIntel",
				UserAgent:      "Mozilla/5.0 (X11; Linux x86_64)",
			})

			convey.Convey("Then hints win over everything else", func() {
				convey.So(got, convey.ShouldEqual, "windows")
			})
		})

		convey.Convey("When only the legacy platform field is present", func() {
			convey.Convey("Then vendor spellings are folded", func() {
				convey.So(platform.Detect(platform.ClientInfo{LegacyPlatform: "Win32"}), convey.ShouldEqual, "windows")
				convey.So(platform.Detect(platform.ClientInfo{LegacyPlatform: "MacIntel"}), convey.ShouldEqual, "macos")
				convey.So(platform.Detect(platform.ClientInfo{LegacyPlatform: "iPhone"}), convey.ShouldEqual, "ios")
				convey.So(platform.Detect(platform.ClientInfo{LegacyPlatform: "X11"}), convey.ShouldEqual, "linux")
			})
		})

		convey.Convey("When only the user agent is available", func() {
			convey.Convey("Then UA heuristics decide", func() {
				cases := map[string]string{
					"Mozilla/5.0 (Linux; Android 13; SM-A135F)":          "android",
					"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)":           "ios",
					"Mozilla/5.0 (Windows NT 10.0; Win64; x64)":          "windows",
					"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)":    "macos",
					"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36": "linux",
					"SomeBot/1.0 (+https://example.com/bot)":             platform.Unknown,
				}
				for ua, want := range cases {
					convey.So(platform.Detect(platform.ClientInfo{UserAgent: ua}), convey.ShouldEqual, want)
				}
			})
		})

		convey.Convey("When no signal is available at all", func() {
			got := platform.Detect(platform.ClientInfo{})

			convey.Convey("Then detection degrades to unknown instead of failing", func() {
				convey.So(got, convey.ShouldEqual, platform.Unknown)
			})
		})
	})
}
