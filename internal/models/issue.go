package models

import (
	"errors"
	"strings"
	"time"
)

// IssueStatus represents the workflow state of an issue.
type IssueStatus string

const (
	IssueStatusOpen            IssueStatus = "open"
	IssueStatusInProgress      IssueStatus = "in-progress"
	IssueStatusPendingReview   IssueStatus = "pending-review"
	IssueStatusPendingApproval IssueStatus = "pending-approval"
	IssueStatusClosed          IssueStatus = "closed"
)

// IssuePriority represents the urgency of an issue.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Statuses lists all issue statuses in workflow order.
var Statuses = []IssueStatus{
	IssueStatusOpen,
	IssueStatusInProgress,
	IssueStatusPendingReview,
	IssueStatusPendingApproval,
	IssueStatusClosed,
}

// Priorities lists all issue priorities from least to most urgent.
var Priorities = []IssuePriority{
	IssuePriorityLow,
	IssuePriorityMedium,
	IssuePriorityHigh,
	IssuePriorityCritical,
}

// ValidStatus reports whether s is a known issue status.
func ValidStatus(s IssueStatus) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known issue priority.
func ValidPriority(p IssuePriority) bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Issue represents a tracked unit of work (bug/task).
//
// AssigneeID holds the directory id of the assignee; the display name is
// resolved against the directory at read time and never stored.
// ActualHours is derived: it is recomputed from the work sessions
// referencing this issue whenever a session is added or removed.
//
// JSON field names match the legacy client's localStorage snapshots so
// existing data round-trips unchanged.
type Issue struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Priority       IssuePriority `json:"priority"`
	Status         IssueStatus   `json:"status"`
	AssigneeID     string        `json:"assigneeId"`
	CreatedBy      string        `json:"createdBy"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	DueDate        *time.Time    `json:"dueDate,omitempty"`
	EstimatedHours float64       `json:"estimatedHours,omitempty"`
	ActualHours    float64       `json:"actualHours"`
	Tags           []string      `json:"tags"`
	Project        string        `json:"project"`
}

// DefaultProject is assigned when an issue is created without a project.
const DefaultProject = "General"

// ValidateIssueInput checks the caller-supplied fields of a new or updated
// issue. The store itself performs no semantic validation; every input
// edge (CLI flags, prompts) runs this before invoking the store.
func ValidateIssueInput(title, description string, priority IssuePriority) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}
	if !ValidPriority(priority) {
		return errors.New("priority must be one of: low, medium, high, critical")
	}
	return nil
}
