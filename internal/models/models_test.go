package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, ValidStatus(s), "status %q should be valid", s)
	}
	assert.False(t, ValidStatus("resolved"))
	assert.False(t, ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, p := range Priorities {
		assert.True(t, ValidPriority(p), "priority %q should be valid", p)
	}
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}

func TestValidateIssueInput(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		priority    IssuePriority
		wantErr     string
	}{
		{"valid", "Login bug", "Cannot log in", IssuePriorityHigh, ""},
		{"empty title", "", "Cannot log in", IssuePriorityHigh, "title is required"},
		{"whitespace title", "   ", "Cannot log in", IssuePriorityHigh, "title is required"},
		{"empty description", "Login bug", "", IssuePriorityHigh, "description is required"},
		{"bad priority", "Login bug", "Cannot log in", "urgent", "priority must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIssueInput(tt.title, tt.description, tt.priority)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateWorkSessionInput(t *testing.T) {
	tests := []struct {
		name        string
		hours       float64
		description string
		wantErr     bool
	}{
		{"valid", 2.5, "Fixed null check", false},
		{"full day", 24, "Long day", false},
		{"zero hours", 0, "Fixed null check", true},
		{"negative hours", -1, "Fixed null check", true},
		{"over a day", 24.5, "Fixed null check", true},
		{"empty description", 2, "", true},
		{"whitespace description", 2, "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkSessionInput(tt.hours, tt.description)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueJSONFieldNames(t *testing.T) {
	due := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	issue := Issue{
		ID:             "1",
		Title:          "Login bug",
		Description:    "Cannot log in",
		Priority:       IssuePriorityHigh,
		Status:         IssueStatusOpen,
		AssigneeID:     "1",
		CreatedBy:      "2",
		CreatedAt:      due,
		UpdatedAt:      due,
		DueDate:        &due,
		EstimatedHours: 8,
		Tags:           []string{"auth"},
		Project:        "General",
	}

	data, err := json.Marshal(issue)
	require.NoError(t, err)

	// Field names must match the legacy client's snapshots.
	for _, key := range []string{
		`"assigneeId"`, `"createdBy"`, `"createdAt"`, `"updatedAt"`,
		`"dueDate"`, `"estimatedHours"`, `"actualHours"`,
	} {
		assert.Contains(t, string(data), key)
	}
}

func TestWorkSessionJSONFieldNames(t *testing.T) {
	ws := WorkSession{
		ID:          "101",
		IssueID:     "1",
		UserID:      "1",
		Hours:       3.5,
		Description: "Investigated token refresh",
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ws)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"issueId"`)
	assert.Contains(t, string(data), `"userId"`)
}
