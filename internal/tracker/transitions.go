package tracker

import "github.com/bugtrackhq/bugtrack/internal/models"

// transitions is the allowed status graph. The legacy client only gated
// transitions in its UI; here the store's update path enforces them.
var transitions = map[models.IssueStatus][]models.IssueStatus{
	models.IssueStatusOpen:            {models.IssueStatusInProgress},
	models.IssueStatusInProgress:      {models.IssueStatusPendingReview, models.IssueStatusPendingApproval},
	models.IssueStatusPendingReview:   {models.IssueStatusInProgress, models.IssueStatusPendingApproval},
	models.IssueStatusPendingApproval: {models.IssueStatusClosed, models.IssueStatusOpen},
	models.IssueStatusClosed:          {models.IssueStatusOpen},
}

// CanTransition reports whether moving from one status to another is
// allowed. Re-asserting the current status is always allowed.
func CanTransition(from, to models.IssueStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from models.IssueStatus) []models.IssueStatus {
	return transitions[from]
}
