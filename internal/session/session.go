// Package session holds the current authenticated identity. Credentials
// are mocked: a username must exist in the directory and the secret must
// equal a single shared value. The active identity is persisted so a
// session survives process restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bugtrackhq/bugtrack/internal/directory"
	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/storage"
)

// ErrNotAuthenticated is returned by operations that need an identity
// when no session is active.
var ErrNotAuthenticated = errors.New("not logged in")

// Manager validates credentials against the directory and persists the
// resulting session under the "user" storage key.
type Manager struct {
	dir    *directory.Directory
	kv     storage.KV
	secret string

	current *models.User
}

// New creates a Manager and restores any persisted session.
func New(ctx context.Context, dir *directory.Directory, kv storage.KV, secret string) (*Manager, error) {
	m := &Manager{dir: dir, kv: kv, secret: secret}

	raw, ok, err := kv.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if ok {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			// A corrupt session snapshot is not fatal; start logged out.
			return m, nil
		}
		// Re-validate against the directory so a stale snapshot cannot
		// resurrect an identity that no longer exists.
		if fresh, found := m.dir.Lookup(u.ID); found {
			m.current = &fresh
		}
	}
	return m, nil
}

// Authenticate checks username and secret. On success the session is set
// and persisted and the result is true. On failure the result is false
// with no indication of which check failed.
func (m *Manager) Authenticate(ctx context.Context, username, secret string) (bool, error) {
	u, found := m.dir.FindByUsername(username)
	if !found || secret != m.secret {
		return false, nil
	}

	data, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}
	if err := m.kv.Put(ctx, storage.KeyUser, string(data)); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}

	m.current = &u
	return true, nil
}

// EndSession clears the active identity and its persisted state.
func (m *Manager) EndSession(ctx context.Context) error {
	m.current = nil
	if err := m.kv.Delete(ctx, storage.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the active identity, or false when logged out.
func (m *Manager) Current() (models.User, bool) {
	if m.current == nil {
		return models.User{}, false
	}
	return *m.current, true
}
