package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrackhq/bugtrack/internal/directory"
	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/storage"
)

// newEmptyStore returns a store over empty persisted collections.
func newEmptyStore(t *testing.T) (*Store, storage.KV) {
	t.Helper()
	kv, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.KeyBugs, "[]"))
	require.NoError(t, kv.Put(ctx, storage.KeyTimeEntries, "[]"))

	s, err := New(ctx, kv, directory.Default())
	require.NoError(t, err)
	return s, kv
}

func testIssue(title string) *models.Issue {
	return &models.Issue{
		Title:       title,
		Description: "description of " + title,
		Priority:    models.IssuePriorityMedium,
		Status:      models.IssueStatusOpen,
		AssigneeID:  "1",
		CreatedBy:   "Jane",
	}
}

func TestNew_SeedsWhenStorageEmpty(t *testing.T) {
	kv, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)

	s, err := New(context.Background(), kv, directory.Default())
	require.NoError(t, err)

	assert.Len(t, s.Issues(), 15)
	assert.Len(t, s.WorkSessions(), 21)
}

func TestCreateIssue(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	a := testIssue("first")
	b := testIssue("second")
	require.NoError(t, s.CreateIssue(ctx, a))
	require.NoError(t, s.CreateIssue(ctx, b))

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "ids must be unique")
	assert.Equal(t, a.CreatedAt, a.UpdatedAt, "createdAt == updatedAt at creation")
	assert.Equal(t, models.DefaultProject, a.Project, "blank project defaults")
	assert.Len(t, s.Issues(), 2)
}

func TestUpdateIssue(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("update me")
	require.NoError(t, s.CreateIssue(ctx, issue))
	before := issue.UpdatedAt

	status := models.IssueStatusInProgress
	updated, err := s.UpdateIssue(ctx, issue.ID, IssueUpdate{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.IssueStatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(before), "updatedAt must strictly increase")
	assert.Equal(t, before, updated.CreatedAt, "createdAt is immutable")
}

func TestUpdateIssue_NotFound(t *testing.T) {
	s, _ := newEmptyStore(t)

	title := "x"
	_, err := s.UpdateIssue(context.Background(), "missing", IssueUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateIssue_RejectsBadTransition(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("workflow")
	require.NoError(t, s.CreateIssue(ctx, issue))

	closed := models.IssueStatusClosed
	_, err := s.UpdateIssue(ctx, issue.ID, IssueUpdate{Status: &closed})
	assert.ErrorIs(t, err, ErrBadTransition, "open cannot jump straight to closed")

	got, err := s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusOpen, got.Status, "rejected update must not change state")
}

func TestDeleteIssue_CascadesToWorkSessions(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	a := testIssue("A")
	b := testIssue("B")
	require.NoError(t, s.CreateIssue(ctx, a))
	require.NoError(t, s.CreateIssue(ctx, b))

	s1 := &models.WorkSession{IssueID: a.ID, UserID: "1", Hours: 2, Description: "on A"}
	s2 := &models.WorkSession{IssueID: b.ID, UserID: "1", Hours: 3, Description: "on B"}
	require.NoError(t, s.AddWorkSession(ctx, s1))
	require.NoError(t, s.AddWorkSession(ctx, s2))

	require.NoError(t, s.DeleteIssue(ctx, a.ID))

	issues := s.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, b.ID, issues[0].ID)

	sessions := s.WorkSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, s2.ID, sessions[0].ID, "sessions for other issues are untouched")
}

func TestDeleteIssue_NotFound(t *testing.T) {
	s, _ := newEmptyStore(t)
	assert.ErrorIs(t, s.DeleteIssue(context.Background(), "missing"), ErrNotFound)
}

func TestAddWorkSession_RecomputesActualHours(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("timed")
	require.NoError(t, s.CreateIssue(ctx, issue))

	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "1", Hours: 2, Description: "first pass",
	}))
	got, err := s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2, got.ActualHours, 1e-9)

	// Each addition raises the total by exactly its hours, no double count.
	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "1", Hours: 3.5, Description: "second pass",
	}))
	got, err = s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, got.ActualHours, 1e-9)
}

func TestAddWorkSession_UnknownIssue(t *testing.T) {
	s, _ := newEmptyStore(t)

	err := s.AddWorkSession(context.Background(), &models.WorkSession{
		IssueID: "missing", UserID: "1", Hours: 1, Description: "lost",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteWorkSession_RecomputesActualHours(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("timed")
	require.NoError(t, s.CreateIssue(ctx, issue))

	ws := &models.WorkSession{IssueID: issue.ID, UserID: "1", Hours: 4, Description: "work"}
	require.NoError(t, s.AddWorkSession(ctx, ws))
	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "1", Hours: 1, Description: "more work",
	}))

	require.NoError(t, s.DeleteWorkSession(ctx, ws.ID))

	got, err := s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.ActualHours, 1e-9, "hours drop when a session is deleted")
	assert.Len(t, s.WorkSessions(), 1)
}

func TestDeleteWorkSession_NotFound(t *testing.T) {
	s, _ := newEmptyStore(t)
	assert.ErrorIs(t, s.DeleteWorkSession(context.Background(), "missing"), ErrNotFound)
}

func TestListForRole(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	mine := testIssue("mine")
	mine.AssigneeID = "1"
	theirs := testIssue("theirs")
	theirs.AssigneeID = "3"
	require.NoError(t, s.CreateIssue(ctx, mine))
	require.NoError(t, s.CreateIssue(ctx, theirs))

	d := directory.Default()
	manager, _ := d.Lookup("2")
	dev, _ := d.Lookup("1")

	assert.Len(t, s.ListForRole(manager), 2, "managers see everything")

	visible := s.ListForRole(dev)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)
}

func TestSessionsForIssueAndUser(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("shared")
	require.NoError(t, s.CreateIssue(ctx, issue))

	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "1", Hours: 2, Description: "john's work",
	}))
	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "3", Hours: 3, Description: "bob's work",
	}))

	assert.Len(t, s.SessionsForIssue(issue.ID), 2)
	assert.Len(t, s.SessionsForUser("1"), 1)
	assert.Len(t, s.SessionsForUser("2"), 0)
}

func TestPersistence_RoundTrip(t *testing.T) {
	s, kv := newEmptyStore(t)
	ctx := context.Background()

	due := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	issue := testIssue("persisted")
	issue.Tags = []string{"backend", "backend"}
	issue.DueDate = &due
	issue.EstimatedHours = 8
	require.NoError(t, s.CreateIssue(ctx, issue))
	require.NoError(t, s.AddWorkSession(ctx, &models.WorkSession{
		IssueID: issue.ID, UserID: "1", Hours: 2.5, Description: "logged",
	}))

	// A fresh store over the same storage reproduces equal collections.
	s2, err := New(ctx, kv, directory.Default())
	require.NoError(t, err)

	issues := s2.Issues()
	require.Len(t, issues, 1)
	got := issues[0]
	assert.Equal(t, issue.ID, got.ID)
	assert.Equal(t, issue.Title, got.Title)
	assert.Equal(t, []string{"backend", "backend"}, got.Tags, "tags survive verbatim, duplicates included")
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.InDelta(t, 2.5, got.ActualHours, 1e-9)

	sessions := s2.WorkSessions()
	require.Len(t, sessions, 1)
	assert.InDelta(t, 2.5, sessions[0].Hours, 1e-9)
}

func TestUpdateIssue_StrictlyIncreasingWithFrozenClock(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	// Freeze the clock: UpdatedAt must still advance on every mutation.
	frozen := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	issue := testIssue("frozen")
	require.NoError(t, s.CreateIssue(ctx, issue))
	first := issue.UpdatedAt

	title := "renamed"
	updated, err := s.UpdateIssue(ctx, issue.ID, IssueUpdate{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(first))

	title2 := "renamed again"
	updated, err = s.UpdateIssue(ctx, issue.ID, IssueUpdate{Title: &title2})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(first.Add(time.Millisecond)))
}

func TestAssigneeName_JoinsAgainstDirectory(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	issue := testIssue("named")
	issue.AssigneeID = "3"
	require.NoError(t, s.CreateIssue(ctx, issue))

	assert.Equal(t, "Bob", s.AssigneeName(issue))

	other := testIssue("orphan")
	other.AssigneeID = "99"
	require.NoError(t, s.CreateIssue(ctx, other))
	assert.Equal(t, "", s.AssigneeName(other))
}
