package tracker

import (
	"time"

	"github.com/bugtrackhq/bugtrack/internal/models"
)

// The seed dataset ships with the tracker so a fresh install has
// something to look at. It is loaded only when durable storage holds no
// snapshots; the first mutation persists whatever state grew out of it.

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func seedIssues() []*models.Issue {
	return []*models.Issue{
		{
			ID: "1", Title: "Login button not working",
			Description: "The login button is not responding when clicked on mobile devices",
			Priority:    models.IssuePriorityHigh, Status: models.IssueStatusOpen,
			AssigneeID: "1", CreatedBy: "Jane",
			CreatedAt: day(1), UpdatedAt: day(15), DueDate: dayPtr(20),
			EstimatedHours: 8, ActualHours: 0,
			Tags: []string{"frontend", "mobile"}, Project: "Main App",
		},
		{
			ID: "2", Title: "Database connection timeout",
			Description: "Users experiencing timeout errors when trying to access their profiles",
			Priority:    models.IssuePriorityCritical, Status: models.IssueStatusInProgress,
			AssigneeID: "3", CreatedBy: "Jane",
			CreatedAt: day(5), UpdatedAt: day(15), DueDate: dayPtr(10),
			EstimatedHours: 12, ActualHours: 6,
			Tags: []string{"backend", "database"}, Project: "User Service",
		},
		{
			ID: "3", Title: "UI alignment issues",
			Description: "Text and buttons are misaligned on the dashboard page",
			Priority:    models.IssuePriorityMedium, Status: models.IssueStatusPendingReview,
			AssigneeID: "1", CreatedBy: "Jane",
			CreatedAt: day(10), UpdatedAt: day(15), DueDate: dayPtr(25),
			EstimatedHours: 4, ActualHours: 4,
			Tags: []string{"frontend", "ui"}, Project: "Main App",
		},
		{
			ID: "4", Title: "API rate limiting not working",
			Description: "Rate limiting middleware is not properly restricting requests",
			Priority:    models.IssuePriorityHigh, Status: models.IssueStatusClosed,
			AssigneeID: "3", CreatedBy: "Jane",
			CreatedAt: day(2), UpdatedAt: day(8), DueDate: dayPtr(7),
			EstimatedHours: 6, ActualHours: 5,
			Tags: []string{"backend", "security"}, Project: "API Gateway",
		},
		{
			ID: "5", Title: "Mobile app crashes on startup",
			Description: "App crashes immediately after launch on iOS devices",
			Priority:    models.IssuePriorityCritical, Status: models.IssueStatusOpen,
			AssigneeID: "1", CreatedBy: "Bob",
			CreatedAt: day(14), UpdatedAt: day(15), DueDate: dayPtr(18),
			EstimatedHours: 10, ActualHours: 0,
			Tags: []string{"mobile", "ios"}, Project: "Mobile App",
		},
		{
			ID: "6", Title: "Email notifications delayed",
			Description: "Users reporting 5-10 minute delays in receiving notifications",
			Priority:    models.IssuePriorityMedium, Status: models.IssueStatusInProgress,
			AssigneeID: "3", CreatedBy: "John",
			CreatedAt: day(11), UpdatedAt: day(15), DueDate: dayPtr(22),
			EstimatedHours: 8, ActualHours: 3,
			Tags: []string{"backend", "email"}, Project: "Notification Service",
		},
		{
			ID: "7", Title: "Dashboard charts not updating",
			Description: "Real-time charts on dashboard showing stale data",
			Priority:    models.IssuePriorityHigh, Status: models.IssueStatusPendingReview,
			AssigneeID: "1", CreatedBy: "Bob",
			CreatedAt: day(9), UpdatedAt: day(15), DueDate: dayPtr(16),
			EstimatedHours: 5, ActualHours: 5,
			Tags: []string{"frontend", "data"}, Project: "Main App",
		},
		{
			ID: "8", Title: "User profile image upload failing",
			Description: "Large profile images (>5MB) failing to upload",
			Priority:    models.IssuePriorityLow, Status: models.IssueStatusClosed,
			AssigneeID: "3", CreatedBy: "Jane",
			CreatedAt: day(3), UpdatedAt: day(6), DueDate: dayPtr(5),
			EstimatedHours: 3, ActualHours: 2,
			Tags: []string{"frontend", "upload"}, Project: "User Service",
		},
		{
			ID: "9", Title: "Search results pagination broken",
			Description: "Pagination controls not working on search results page",
			Priority:    models.IssuePriorityHigh, Status: models.IssueStatusClosed,
			AssigneeID: "1", CreatedBy: "Bob",
			CreatedAt: day(4), UpdatedAt: day(7), DueDate: dayPtr(8),
			EstimatedHours: 4, ActualHours: 4,
			Tags: []string{"frontend", "search"}, Project: "Main App",
		},
		{
			ID: "10", Title: "Password reset email not sending",
			Description: "Users not receiving password reset emails",
			Priority:    models.IssuePriorityCritical, Status: models.IssueStatusClosed,
			AssigneeID: "3", CreatedBy: "Jane",
			CreatedAt: day(6), UpdatedAt: day(9), DueDate: dayPtr(9),
			EstimatedHours: 6, ActualHours: 7,
			Tags: []string{"backend", "email", "security"}, Project: "User Service",
		},
		{
			ID: "11", Title: "Mobile app dark mode flickering",
			Description: "Screen flickers when switching between light and dark mode",
			Priority:    models.IssuePriorityMedium, Status: models.IssueStatusClosed,
			AssigneeID: "1", CreatedBy: "Bob",
			CreatedAt: day(7), UpdatedAt: day(11), DueDate: dayPtr(12),
			EstimatedHours: 3, ActualHours: 2,
			Tags: []string{"mobile", "ui"}, Project: "Mobile App",
		},
		{
			ID: "12", Title: "API documentation outdated",
			Description: "API documentation not reflecting latest endpoint changes",
			Priority:    models.IssuePriorityLow, Status: models.IssueStatusClosed,
			AssigneeID: "3", CreatedBy: "John",
			CreatedAt: day(8), UpdatedAt: day(10), DueDate: dayPtr(11),
			EstimatedHours: 2, ActualHours: 2,
			Tags: []string{"documentation", "api"}, Project: "API Gateway",
		},
		{
			ID: "13", Title: "Performance regression in dashboard",
			Description: "Dashboard loading time increased by 200% after latest update",
			Priority:    models.IssuePriorityHigh, Status: models.IssueStatusInProgress,
			AssigneeID: "1", CreatedBy: "Jane",
			CreatedAt: day(13), UpdatedAt: day(15), DueDate: dayPtr(19),
			EstimatedHours: 8, ActualHours: 2,
			Tags: []string{"frontend", "performance"}, Project: "Main App",
		},
		{
			ID: "14", Title: "Webhook delivery failures",
			Description: "External service webhooks failing to deliver",
			Priority:    models.IssuePriorityCritical, Status: models.IssueStatusOpen,
			AssigneeID: "3", CreatedBy: "John",
			CreatedAt: day(15), UpdatedAt: day(15), DueDate: dayPtr(17),
			EstimatedHours: 5, ActualHours: 0,
			Tags: []string{"backend", "integration"}, Project: "Notification Service",
		},
		{
			ID: "15", Title: "User preferences not saving",
			Description: "User settings and preferences reset after logout",
			Priority:    models.IssuePriorityMedium, Status: models.IssueStatusPendingReview,
			AssigneeID: "1", CreatedBy: "Bob",
			CreatedAt: day(12), UpdatedAt: day(15), DueDate: dayPtr(21),
			EstimatedHours: 6, ActualHours: 6,
			Tags: []string{"frontend", "user-settings"}, Project: "User Service",
		},
	}
}

func seedWorkSessions() []*models.WorkSession {
	return []*models.WorkSession{
		{ID: "1", IssueID: "1", UserID: "1", Hours: 4, Description: "Initial investigation of mobile login issues", Date: day(1)},
		{ID: "2", IssueID: "4", UserID: "3", Hours: 3, Description: "Analyzing rate limiting middleware", Date: day(2)},
		{ID: "3", IssueID: "4", UserID: "3", Hours: 2, Description: "Implementing rate limit fixes", Date: day(3)},
		{ID: "4", IssueID: "9", UserID: "1", Hours: 2, Description: "Debugging pagination controls", Date: day(4)},
		{ID: "5", IssueID: "9", UserID: "1", Hours: 2, Description: "Fixing pagination implementation", Date: day(5)},
		{ID: "6", IssueID: "10", UserID: "3", Hours: 4, Description: "Investigating email delivery issues", Date: day(6)},
		{ID: "7", IssueID: "10", UserID: "3", Hours: 3, Description: "Fixing email service integration", Date: day(7)},
		{ID: "8", IssueID: "11", UserID: "1", Hours: 2, Description: "Investigating dark mode flickering", Date: day(8)},
		{ID: "9", IssueID: "12", UserID: "3", Hours: 2, Description: "Updating API documentation", Date: day(9)},
		{ID: "10", IssueID: "2", UserID: "3", Hours: 3, Description: "Analyzing database connection issues", Date: day(10)},
		{ID: "11", IssueID: "11", UserID: "1", Hours: 2, Description: "Fixing dark mode transitions", Date: day(11)},
		{ID: "12", IssueID: "13", UserID: "1", Hours: 2, Description: "Profiling dashboard performance", Date: day(12)},
		{ID: "13", IssueID: "15", UserID: "1", Hours: 3, Description: "Implementing preferences persistence", Date: day(13)},
		{ID: "14", IssueID: "15", UserID: "1", Hours: 3, Description: "Testing preferences across sessions", Date: day(14)},
		{ID: "15", IssueID: "14", UserID: "3", Hours: 3, Description: "Investigating webhook delivery issues", Date: day(15)},
		{ID: "16", IssueID: "5", UserID: "1", Hours: 4, Description: "Debugging iOS crash on startup", Date: day(16)},
		{ID: "17", IssueID: "13", UserID: "1", Hours: 3, Description: "Optimizing dashboard queries", Date: day(17)},
		{ID: "18", IssueID: "6", UserID: "3", Hours: 3, Description: "Investigating notification delays", Date: day(18)},
		{ID: "19", IssueID: "5", UserID: "1", Hours: 4, Description: "Fixing iOS crash and testing", Date: day(19)},
		{ID: "20", IssueID: "7", UserID: "1", Hours: 3, Description: "Implementing real-time updates", Date: day(20)},
		{ID: "21", IssueID: "3", UserID: "1", Hours: 2, Description: "Fixing alignment issues", Date: day(21)},
	}
}
