// Package redact strips sensitive fields from event properties before they
// are queued for delivery.
package redact

import "regexp"

// sensitiveKey matches field names that must never leave the client.
var sensitiveKey = regexp.MustCompile(`(?i)password|secret|token`)

// Fields returns a copy of props with sensitive keys removed entirely. The
// second return value reports whether anything was dropped.
func Fields(props map[string]any) (map[string]any, bool) {
	clean := make(map[string]any, len(props))
	dropped := false
	for k, v := range props {
		if sensitiveKey.MatchString(k) {
			dropped = true
			continue
		}
		clean[k] = v
	}
	return clean, dropped
}

// Sensitive reports whether a single field name is sensitive.
func Sensitive(name string) bool {
	return sensitiveKey.MatchString(name)
}
