// Package views contains the pure derivations over the tracker's
// collections: filtering, grouped counts, and time aggregation. Nothing
// here mutates state; every function is a plain fold over its inputs.
package views

import (
	"strings"

	"github.com/bugtrackhq/bugtrack/internal/models"
)

// FilterAll is the sentinel that disables a status or priority filter.
// An empty string behaves the same way.
const FilterAll = "all"

// Filter describes the three independent issue filters. They combine
// with AND; each one passes when unset.
type Filter struct {
	Search   string
	Status   string
	Priority string
}

func passThrough(v string) bool {
	return v == "" || v == FilterAll
}

// FilterIssues returns the issues matching all three filters, preserving
// input order. The text filter is a case-insensitive substring match
// against title or description.
func FilterIssues(issues []*models.Issue, f Filter) []*models.Issue {
	search := strings.ToLower(f.Search)

	var out []*models.Issue
	for _, issue := range issues {
		if search != "" &&
			!strings.Contains(strings.ToLower(issue.Title), search) &&
			!strings.Contains(strings.ToLower(issue.Description), search) {
			continue
		}
		if !passThrough(f.Status) && string(issue.Status) != f.Status {
			continue
		}
		if !passThrough(f.Priority) && string(issue.Priority) != f.Priority {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// CountByStatus returns the number of issues per status value.
func CountByStatus(issues []*models.Issue) map[models.IssueStatus]int {
	counts := make(map[models.IssueStatus]int)
	for _, issue := range issues {
		counts[issue.Status]++
	}
	return counts
}

// CountByPriority returns the number of issues per priority value.
func CountByPriority(issues []*models.Issue) map[models.IssuePriority]int {
	counts := make(map[models.IssuePriority]int)
	for _, issue := range issues {
		counts[issue.Priority]++
	}
	return counts
}

// TotalHours sums the hours across a sequence of work sessions.
func TotalHours(sessions []*models.WorkSession) float64 {
	var total float64
	for _, ws := range sessions {
		total += ws.Hours
	}
	return total
}

// HoursByIssue accumulates logged hours per issue id in a single pass.
func HoursByIssue(sessions []*models.WorkSession) map[string]float64 {
	totals := make(map[string]float64)
	for _, ws := range sessions {
		totals[ws.IssueID] += ws.Hours
	}
	return totals
}

// HoursByUser accumulates logged hours per user id in a single pass.
func HoursByUser(sessions []*models.WorkSession) map[string]float64 {
	totals := make(map[string]float64)
	for _, ws := range sessions {
		totals[ws.UserID] += ws.Hours
	}
	return totals
}

// TotalActualHours sums the accumulated actual hours across issues, the
// "total time spent" figure on the dashboard.
func TotalActualHours(issues []*models.Issue) float64 {
	var total float64
	for _, issue := range issues {
		total += issue.ActualHours
	}
	return total
}

// OpenForWork returns the issues time can still be logged against, i.e.
// everything not closed. Input order is preserved.
func OpenForWork(issues []*models.Issue) []*models.Issue {
	var out []*models.Issue
	for _, issue := range issues {
		if issue.Status != models.IssueStatusClosed {
			out = append(out, issue)
		}
	}
	return out
}
