package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/output"
	"github.com/bugtrackhq/bugtrack/internal/tracker"
	"github.com/bugtrackhq/bugtrack/internal/views"
)

var (
	timeIssue string
	timeHours float64
	timeDesc  string
	timeDate  string
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Log and review work sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return timeListRun()
	},
}

var timeLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a work session against an issue",
	Long: `Log hours against an issue. Hours must be between 0 and 24 and
time cannot be logged against a closed issue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return timeLogRun()
	},
}

var timeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List work sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return timeListRun()
	},
}

var timeDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a work session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return timeDeleteRun(args[0])
	},
}

var timeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show hour totals per issue and per user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return timeSummaryRun()
	},
}

func init() {
	timeLogCmd.Flags().StringVar(&timeIssue, "issue", "", "Issue id (required)")
	timeLogCmd.Flags().Float64Var(&timeHours, "hours", 0, "Hours worked, up to 24 (required)")
	timeLogCmd.Flags().StringVar(&timeDesc, "desc", "", "What was done (required)")
	timeLogCmd.Flags().StringVar(&timeDate, "date", "", "Date of the work (YYYY-MM-DD, default today)")
	_ = timeLogCmd.MarkFlagRequired("issue")
	_ = timeLogCmd.MarkFlagRequired("hours")
	_ = timeLogCmd.MarkFlagRequired("desc")

	timeCmd.AddCommand(timeLogCmd)
	timeCmd.AddCommand(timeListCmd)
	timeCmd.AddCommand(timeDeleteCmd)
	timeCmd.AddCommand(timeSummaryCmd)
	rootCmd.AddCommand(timeCmd)
}

func timeLogRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	if err := models.ValidateWorkSessionInput(timeHours, timeDesc); err != nil {
		return err
	}

	issue, err := findIssue(t, timeIssue)
	if err != nil {
		return err
	}
	if issue.Status == models.IssueStatusClosed {
		return fmt.Errorf("issue %s is closed; reopen it before logging time", shortID(issue.ID))
	}
	if !tracker.CanModify(user, issue) {
		return fmt.Errorf("you cannot log time against issue %s (not yours, not a manager)", shortID(issue.ID))
	}

	date := time.Now().UTC()
	if timeDate != "" {
		date, err = time.Parse("2006-01-02", timeDate)
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", timeDate)
		}
	}

	ws := &models.WorkSession{
		IssueID:     issue.ID,
		UserID:      user.ID,
		Hours:       timeHours,
		Description: timeDesc,
		Date:        date,
	}
	if err := t.AddWorkSession(context.Background(), ws); err != nil {
		return err
	}

	updated, err := t.GetIssue(issue.ID)
	if err != nil {
		return err
	}
	ui.Success("Logged %.1fh on %s (total now %.1fh)", ws.Hours, output.Cyan(shortID(issue.ID)), updated.ActualHours)
	return nil
}

func timeListRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	// Managers review everyone's sessions; developers see their own.
	var sessions []*models.WorkSession
	if user.Role == models.RoleManager {
		sessions = t.WorkSessions()
	} else {
		sessions = t.SessionsForUser(user.ID)
	}

	if len(sessions) == 0 {
		ui.Info("No work sessions logged.")
		return nil
	}

	headers := []string{"ID", "Date", "Issue", "Hours", "Description"}
	if user.Role == models.RoleManager {
		headers = []string{"ID", "Date", "User", "Issue", "Hours", "Description"}
	}

	table := ui.Table(headers)
	for _, ws := range sessions {
		issueTitle := ws.IssueID
		if issue, err := t.GetIssue(ws.IssueID); err == nil {
			issueTitle = issue.Title
		}

		row := []string{
			shortID(ws.ID),
			ws.Date.Format("2006-01-02"),
			issueTitle,
			fmt.Sprintf("%.1f", ws.Hours),
			ws.Description,
		}
		if user.Role == models.RoleManager {
			row = []string{
				shortID(ws.ID),
				ws.Date.Format("2006-01-02"),
				dir.DisplayName(ws.UserID),
				issueTitle,
				fmt.Sprintf("%.1f", ws.Hours),
				ws.Description,
			}
		}
		_ = table.Append(row)
	}
	_ = table.Render()

	fmt.Fprintf(ui.Out, "\nTotal: %.1fh\n", views.TotalHours(sessions))
	return nil
}

func timeDeleteRun(id string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	ws, err := findSession(t, id)
	if err != nil {
		return err
	}
	if user.Role != models.RoleManager && ws.UserID != user.ID {
		return fmt.Errorf("you can only delete your own work sessions")
	}

	if err := t.DeleteWorkSession(context.Background(), ws.ID); err != nil {
		return err
	}
	ui.Success("Deleted work session %s", output.Cyan(shortID(ws.ID)))
	return nil
}

func timeSummaryRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	var sessions []*models.WorkSession
	if user.Role == models.RoleManager {
		sessions = t.WorkSessions()
	} else {
		sessions = t.SessionsForUser(user.ID)
	}

	if len(sessions) == 0 {
		ui.Info("No work sessions logged.")
		return nil
	}

	byIssue := views.HoursByIssue(sessions)
	table := ui.Table([]string{"Issue", "Hours"})
	// Walk issues in collection order so the table is stable.
	for _, issue := range t.Issues() {
		if hours, ok := byIssue[issue.ID]; ok {
			_ = table.Append([]string{issue.Title, fmt.Sprintf("%.1f", hours)})
		}
	}
	_ = table.Render()

	if user.Role == models.RoleManager {
		fmt.Fprintln(ui.Out)
		byUser := views.HoursByUser(sessions)
		userTable := ui.Table([]string{"User", "Hours"})
		for _, u := range dir.Users() {
			if hours, ok := byUser[u.ID]; ok {
				_ = userTable.Append([]string{u.Name, fmt.Sprintf("%.1f", hours)})
			}
		}
		_ = userTable.Render()
	}

	fmt.Fprintf(ui.Out, "\nTotal: %.1fh\n", views.TotalHours(sessions))
	return nil
}

// findSession resolves an exact or unambiguous prefix match on session
// ids, with the same rules as findIssue.
func findSession(t *tracker.Store, id string) (*models.WorkSession, error) {
	upper := strings.ToUpper(id)
	var matches []*models.WorkSession
	for _, ws := range t.WorkSessions() {
		if ws.ID == id {
			return ws, nil
		}
		if strings.HasPrefix(strings.ToUpper(ws.ID), upper) {
			matches = append(matches, ws)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("work session not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous session ID %s: matches %d sessions", id, len(matches))
	}
}
