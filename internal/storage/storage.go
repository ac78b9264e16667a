// Package storage provides the durable local key-value store backing the
// tracker. Each key holds one full JSON snapshot of a collection; writes
// replace the whole value (last write wins, no coordination across
// processes).
package storage

import "context"

// Snapshot keys used by the application.
const (
	KeyUser        = "user"
	KeyBugs        = "bugs"
	KeyTimeEntries = "timeEntries"
)

// KV is a string-valued key-value store with full-snapshot semantics.
type KV interface {
	// Get returns the value for key. The second return is false when the
	// key has never been written (or was deleted).
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key, replacing any previous value. The write
	// is durable before Put returns.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
