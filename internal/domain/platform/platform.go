// Package platform performs coarse platform detection from whatever client
// environment information is available.
package platform

import "strings"

// ClientInfo carries the raw environment signals, in decreasing order of
// reliability. Any or all fields may be empty.
type ClientInfo struct {
	// HintsPlatform is the structured client-hints platform value.
	HintsPlatform string
	// LegacyPlatform is the legacy platform field, e.g. "Win32".
	LegacyPlatform string
	// UserAgent is the full user-agent string.
	UserAgent string
}

// Unknown is returned when no signal yields a platform.
const Unknown = "unknown"

// Detect resolves a coarse platform name. It degrades through three
// strategies (client hints, legacy platform field, user-agent heuristics)
// and never fails; with no usable signal it returns Unknown.
func Detect(info ClientInfo) string {
	if p := strings.TrimSpace(info.HintsPlatform); p != "" {
		return normalize(p)
	}
	if p := strings.TrimSpace(info.LegacyPlatform); p != "" {
		return normalize(p)
	}
	return fromUserAgent(info.UserAgent)
}

// normalize folds vendor spellings into a small stable set.
func normalize(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "win"):
		return "windows"
	case strings.Contains(lower, "mac"):
		return "macos"
	case strings.Contains(lower, "android"):
		return "android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ios"):
		return "ios"
	case strings.Contains(lower, "linux"), strings.Contains(lower, "x11"):
		return "linux"
	}
	return lower
}

// fromUserAgent is the last-resort heuristic over the UA string.
func fromUserAgent(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case lower == "":
		return Unknown
	case strings.Contains(lower, "android"):
		return "android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"):
		return "ios"
	case strings.Contains(lower, "windows"):
		return "windows"
	case strings.Contains(lower, "mac os"), strings.Contains(lower, "macintosh"):
		return "macos"
	case strings.Contains(lower, "linux"):
		return "linux"
	}
	return Unknown
}
