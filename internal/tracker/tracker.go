// Package tracker owns the issue and work-session collections. All reads
// and writes go through the Store: it keeps the collections in memory,
// serializes the affected collection to durable storage before every
// mutator returns, and recomputes derived fields (accumulated actual
// hours) on mutation.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bugtrackhq/bugtrack/internal/directory"
	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/storage"
)

var (
	// ErrNotFound is returned when an issue or work session id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrBadTransition is returned when a status update is not in the
	// allowed transition set.
	ErrBadTransition = errors.New("status transition not allowed")
)

// Store owns the issue and work-session collections.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	dir      *directory.Directory
	issues   []*models.Issue
	sessions []*models.WorkSession

	// now is replaceable in tests.
	now func() time.Time
}

// New loads the persisted collections (or the seed dataset when storage
// is empty) and returns a Store. The directory is used for read-time
// joins of assignee display names.
func New(ctx context.Context, kv storage.KV, dir *directory.Directory) (*Store, error) {
	s := &Store{kv: kv, dir: dir, now: time.Now}

	issues, err := loadSnapshot[models.Issue](ctx, kv, storage.KeyBugs)
	if err != nil {
		return nil, err
	}
	sessions, err := loadSnapshot[models.WorkSession](ctx, kv, storage.KeyTimeEntries)
	if err != nil {
		return nil, err
	}

	// Seed only when neither key was ever written; a store emptied to
	// "[]" snapshots stays empty.
	if issues == nil && sessions == nil {
		s.issues = seedIssues()
		s.sessions = seedWorkSessions()
	} else {
		s.issues = issues
		s.sessions = sessions
	}
	return s, nil
}

// loadSnapshot decodes one collection snapshot; nil means the key was
// never written.
func loadSnapshot[T any](ctx context.Context, kv storage.KV, key string) ([]*T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var items []*T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

func (s *Store) persistIssues(ctx context.Context) error {
	data, err := json.Marshal(s.issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyBugs, string(data)); err != nil {
		return fmt.Errorf("persist issues: %w", err)
	}
	return nil
}

func (s *Store) persistSessions(ctx context.Context) error {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("encode work sessions: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyTimeEntries, string(data)); err != nil {
		return fmt.Errorf("persist work sessions: %w", err)
	}
	return nil
}

// tick returns the current time, advanced past prev when the clock has
// not moved, so UpdatedAt strictly increases across mutations.
func (s *Store) tick(prev time.Time) time.Time {
	ts := s.now().UTC()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

// CreateIssue assigns a fresh id, stamps CreatedAt == UpdatedAt, inserts,
// and persists. The store performs no semantic validation; callers run
// models.ValidateIssueInput at the input edge.
func (s *Store) CreateIssue(ctx context.Context, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if issue.ID == "" {
		issue.ID = newULID()
	}
	if issue.Project == "" {
		issue.Project = models.DefaultProject
	}
	if issue.Status == "" {
		issue.Status = models.IssueStatusOpen
	}
	if issue.Tags == nil {
		issue.Tags = []string{}
	}
	now := s.now().UTC()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	s.issues = append(s.issues, issue)
	return s.persistIssues(ctx)
}

// IssueUpdate holds the fields a caller wants to change. Nil fields are
// left untouched.
type IssueUpdate struct {
	Title          *string
	Description    *string
	Priority       *models.IssuePriority
	Status         *models.IssueStatus
	AssigneeID     *string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
	Project        *string
}

// UpdateIssue merges the set fields into the matching issue, bumps
// UpdatedAt, and persists. Status changes must be in the allowed
// transition set; anything else is rejected with ErrBadTransition.
func (s *Store) UpdateIssue(ctx context.Context, id string, upd IssueUpdate) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findIssue(id)
	if issue == nil {
		return nil, fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}

	if upd.Status != nil && !CanTransition(issue.Status, *upd.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, issue.Status, *upd.Status)
	}

	if upd.Title != nil {
		issue.Title = *upd.Title
	}
	if upd.Description != nil {
		issue.Description = *upd.Description
	}
	if upd.Priority != nil {
		issue.Priority = *upd.Priority
	}
	if upd.Status != nil {
		issue.Status = *upd.Status
	}
	if upd.AssigneeID != nil {
		issue.AssigneeID = *upd.AssigneeID
	}
	if upd.DueDate != nil {
		issue.DueDate = upd.DueDate
	}
	if upd.EstimatedHours != nil {
		issue.EstimatedHours = *upd.EstimatedHours
	}
	if upd.Tags != nil {
		issue.Tags = upd.Tags
	}
	if upd.Project != nil {
		issue.Project = *upd.Project
	}

	issue.UpdatedAt = s.tick(issue.UpdatedAt)

	if err := s.persistIssues(ctx); err != nil {
		return nil, err
	}
	return issue, nil
}

// DeleteIssue removes the issue and every work session referencing it,
// then persists both collections.
func (s *Store) DeleteIssue(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.issues[:0]
	for _, issue := range s.issues {
		if issue.ID == id {
			found = true
			continue
		}
		kept = append(kept, issue)
	}
	if !found {
		return fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	s.issues = kept

	keptSessions := s.sessions[:0]
	for _, ws := range s.sessions {
		if ws.IssueID == id {
			continue
		}
		keptSessions = append(keptSessions, ws)
	}
	s.sessions = keptSessions

	if err := s.persistIssues(ctx); err != nil {
		return err
	}
	return s.persistSessions(ctx)
}

// AddWorkSession assigns a fresh id, inserts the session, and recomputes
// the owning issue's ActualHours in a single pass over the collection as
// it stands after the insertion. Summing the settled collection keeps the
// invariant actualHours == sum of session hours independent of call
// timing.
func (s *Store) AddWorkSession(ctx context.Context, ws *models.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findIssue(ws.IssueID)
	if issue == nil {
		return fmt.Errorf("issue %s: %w", ws.IssueID, ErrNotFound)
	}

	if ws.ID == "" {
		ws.ID = newULID()
	}
	if ws.Date.IsZero() {
		ws.Date = s.now().UTC()
	}
	s.sessions = append(s.sessions, ws)

	if err := s.persistSessions(ctx); err != nil {
		return err
	}
	return s.recomputeActualHours(ctx, issue)
}

// DeleteWorkSession removes a session and recomputes the owning issue's
// ActualHours so the derived field stays consistent after deletion.
func (s *Store) DeleteWorkSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issueID := ""
	kept := s.sessions[:0]
	for _, ws := range s.sessions {
		if ws.ID == id {
			issueID = ws.IssueID
			continue
		}
		kept = append(kept, ws)
	}
	if issueID == "" {
		return fmt.Errorf("work session %s: %w", id, ErrNotFound)
	}
	s.sessions = kept

	if err := s.persistSessions(ctx); err != nil {
		return err
	}
	if issue := s.findIssue(issueID); issue != nil {
		return s.recomputeActualHours(ctx, issue)
	}
	return nil
}

// recomputeActualHours sets issue.ActualHours to the sum of hours of all
// sessions referencing it and persists the issues collection. Callers
// hold the mutex.
func (s *Store) recomputeActualHours(ctx context.Context, issue *models.Issue) error {
	var total float64
	for _, ws := range s.sessions {
		if ws.IssueID == issue.ID {
			total += ws.Hours
		}
	}
	issue.ActualHours = total
	issue.UpdatedAt = s.tick(issue.UpdatedAt)
	return s.persistIssues(ctx)
}

func (s *Store) findIssue(id string) *models.Issue {
	for _, issue := range s.issues {
		if issue.ID == id {
			return issue
		}
	}
	return nil
}

// GetIssue returns the issue with the given id.
func (s *Store) GetIssue(id string) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findIssue(id)
	if issue == nil {
		return nil, fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	return issue, nil
}

// Issues returns the full issue collection in insertion order.
func (s *Store) Issues() []*models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

// WorkSessions returns the full work-session collection in insertion order.
func (s *Store) WorkSessions() []*models.WorkSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.WorkSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// ListForRole applies the sole authorization rule: managers see every
// issue, everyone else sees only issues assigned to them.
func (s *Store) ListForRole(identity models.User) []*models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity.Role == models.RoleManager {
		out := make([]*models.Issue, len(s.issues))
		copy(out, s.issues)
		return out
	}

	var out []*models.Issue
	for _, issue := range s.issues {
		if issue.AssigneeID == identity.ID {
			out = append(out, issue)
		}
	}
	return out
}

// SessionsForIssue returns the work sessions referencing the given issue.
func (s *Store) SessionsForIssue(issueID string) []*models.WorkSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.WorkSession
	for _, ws := range s.sessions {
		if ws.IssueID == issueID {
			out = append(out, ws)
		}
	}
	return out
}

// SessionsForUser returns the work sessions logged by the given user.
func (s *Store) SessionsForUser(userID string) []*models.WorkSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.WorkSession
	for _, ws := range s.sessions {
		if ws.UserID == userID {
			out = append(out, ws)
		}
	}
	return out
}

// AssigneeName resolves an issue's assignee to a display name at read
// time; the stored id is the sole source of truth.
func (s *Store) AssigneeName(issue *models.Issue) string {
	return s.dir.DisplayName(issue.AssigneeID)
}
