// Package storage provides the client-state key-value stores.
//
// Two scopes exist, mirroring the durable/ephemeral split of browser
// storage: a file-backed store that survives process restarts and an
// in-memory store that lives only as long as the process. Writes are
// last-writer-wins; no cross-process coordination is attempted.
package storage

import "context"

// Well-known state keys.
const (
	KeyUser            = "user"
	KeyAccessToken     = "access_token"
	KeyAnalyticsUserID = "analytics_user_id"
)

// Store is a small string key-value store with explicit lifecycle.
type Store interface {
	// Get returns the value for key. The second return value is false when
	// the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all keys.
	Clear(ctx context.Context) error
}
