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
	issueTitle    string
	issueDesc     string
	issueAssignee string
	issueProject  string
	issueTags     string
	issueDue      string
	issueSearch   string
	issueAll      bool

	// pflag writes a flag's default into the bound variable at
	// registration time, so flags whose defaults differ across commands
	// must not share a variable: the last registration would win.
	issueAddPriority  string
	issueAddEstimate  float64
	issueListStatus   string
	issueListPriority string
	issueUpdPriority  string
	issueUpdStatus    string
	issueUpdEstimate  float64
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage tracked issues",
	Long:  "Create, list, update, and work through the lifecycle of issues.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun()
	},
}

var issueAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueAddRun()
	},
}

var issueListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues visible to you",
	Long: `List issues. Developers see their own assignments; managers see
everything. Filters combine with AND.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun()
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show <issue-id>",
	Short: "Show issue details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueShowRun(args[0])
	},
}

var issueUpdateCmd = &cobra.Command{
	Use:   "update <issue-id>",
	Short: "Update an issue",
	Args:  cobra.ExactArgs(1),
}

var issueDeleteCmd = &cobra.Command{
	Use:   "delete <issue-id>",
	Short: "Delete an issue and its logged work sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueDeleteRun(args[0])
	},
}

var issueStartCmd = &cobra.Command{
	Use:   "start <issue-id>",
	Short: "Move an issue to in-progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueStatusRun(args[0], models.IssueStatusInProgress)
	},
}

var issueSubmitCmd = &cobra.Command{
	Use:   "submit <issue-id>",
	Short: "Submit an in-progress issue for approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueStatusRun(args[0], models.IssueStatusPendingApproval)
	},
}

var issueApproveCmd = &cobra.Command{
	Use:   "approve <issue-id>",
	Short: "Approve and close an issue awaiting approval (manager only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueApproveRun(args[0])
	},
}

var issueReopenCmd = &cobra.Command{
	Use:   "reopen <issue-id>",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueStatusRun(args[0], models.IssueStatusOpen)
	},
}

func init() {
	issueAddCmd.Flags().StringVar(&issueTitle, "title", "", "Issue title (required)")
	issueAddCmd.Flags().StringVar(&issueDesc, "desc", "", "Issue description (required)")
	issueAddCmd.Flags().StringVar(&issueAddPriority, "priority", "medium", "Priority: low, medium, high, critical")
	issueAddCmd.Flags().StringVar(&issueAssignee, "assignee", "", "Assignee directory id (default: yourself)")
	issueAddCmd.Flags().StringVar(&issueProject, "project", "", "Project name (default: General)")
	issueAddCmd.Flags().StringVar(&issueTags, "tags", "", "Comma-separated tags")
	issueAddCmd.Flags().StringVar(&issueDue, "due", "", "Due date (YYYY-MM-DD)")
	issueAddCmd.Flags().Float64Var(&issueAddEstimate, "estimate", 0, "Estimated hours")
	_ = issueAddCmd.MarkFlagRequired("title")
	_ = issueAddCmd.MarkFlagRequired("desc")

	issueListCmd.Flags().StringVar(&issueSearch, "search", "", "Match text in title or description")
	issueListCmd.Flags().StringVar(&issueListStatus, "status", "all", "Filter by status (or 'all')")
	issueListCmd.Flags().StringVar(&issueListPriority, "priority", "all", "Filter by priority (or 'all')")
	issueListCmd.Flags().BoolVar(&issueAll, "all", false, "Show every issue regardless of assignment (manager only)")

	issueUpdateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return issueUpdateRun(args[0])
	}
	issueUpdateCmd.Flags().StringVar(&issueTitle, "title", "", "New title")
	issueUpdateCmd.Flags().StringVar(&issueDesc, "desc", "", "New description")
	issueUpdateCmd.Flags().StringVar(&issueUpdPriority, "priority", "", "New priority")
	issueUpdateCmd.Flags().StringVar(&issueUpdStatus, "status", "", "New status (must be an allowed transition)")
	issueUpdateCmd.Flags().StringVar(&issueAssignee, "assignee", "", "New assignee directory id")
	issueUpdateCmd.Flags().StringVar(&issueProject, "project", "", "New project")
	issueUpdateCmd.Flags().StringVar(&issueTags, "tags", "", "Replace tags (comma-separated)")
	issueUpdateCmd.Flags().StringVar(&issueDue, "due", "", "New due date (YYYY-MM-DD)")
	issueUpdateCmd.Flags().Float64Var(&issueUpdEstimate, "estimate", 0, "New estimated hours")

	issueCmd.AddCommand(issueAddCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueUpdateCmd)
	issueCmd.AddCommand(issueDeleteCmd)
	issueCmd.AddCommand(issueStartCmd)
	issueCmd.AddCommand(issueSubmitCmd)
	issueCmd.AddCommand(issueApproveCmd)
	issueCmd.AddCommand(issueReopenCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueAddRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	priority := models.IssuePriority(issueAddPriority)
	if err := models.ValidateIssueInput(issueTitle, issueDesc, priority); err != nil {
		return err
	}
	if issueAddEstimate < 0 {
		return fmt.Errorf("estimate cannot be negative")
	}

	assignee := issueAssignee
	if assignee == "" {
		assignee = user.ID
	}
	if _, ok := dir.Lookup(assignee); !ok {
		return fmt.Errorf("unknown assignee id: %s", assignee)
	}

	issue := &models.Issue{
		Title:          strings.TrimSpace(issueTitle),
		Description:    strings.TrimSpace(issueDesc),
		Priority:       priority,
		Status:         models.IssueStatusOpen,
		AssigneeID:     assignee,
		CreatedBy:      user.Name,
		Project:        issueProject,
		Tags:           splitTags(issueTags),
		EstimatedHours: issueAddEstimate,
	}
	if issueDue != "" {
		due, err := time.Parse("2006-01-02", issueDue)
		if err != nil {
			return fmt.Errorf("invalid due date %q (use YYYY-MM-DD)", issueDue)
		}
		issue.DueDate = &due
	}

	if err := t.CreateIssue(context.Background(), issue); err != nil {
		return err
	}

	ui.Success("Created issue %s: %s", output.Cyan(shortID(issue.ID)), issue.Title)
	return nil
}

func issueListRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	var issues []*models.Issue
	if issueAll {
		if user.Role != models.RoleManager {
			return fmt.Errorf("--all requires the manager role")
		}
		issues = t.Issues()
	} else {
		issues = t.ListForRole(user)
	}

	issues = views.FilterIssues(issues, views.Filter{
		Search:   issueSearch,
		Status:   issueListStatus,
		Priority: issueListPriority,
	})

	if len(issues) == 0 {
		ui.Info("No issues found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Title", "Status", "Priority", "Assignee", "Project", "Hours"})
	for _, issue := range issues {
		hours := fmt.Sprintf("%.1f", issue.ActualHours)
		if issue.EstimatedHours > 0 {
			hours = fmt.Sprintf("%.1f/%.1f", issue.ActualHours, issue.EstimatedHours)
		}
		_ = table.Append([]string{
			shortID(issue.ID),
			issue.Title,
			output.StatusColor(string(issue.Status)),
			output.PriorityColor(string(issue.Priority)),
			t.AssigneeName(issue),
			issue.Project,
			hours,
		})
	}
	_ = table.Render()
	return nil
}

func issueShowRun(id string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issue, err := findIssue(t, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(issue.ID)), issue.Title)
	fmt.Fprintf(ui.Out, "  Status:      %s\n", output.StatusColor(string(issue.Status)))
	fmt.Fprintf(ui.Out, "  Priority:    %s\n", output.PriorityColor(string(issue.Priority)))
	fmt.Fprintf(ui.Out, "  Assignee:    %s\n", t.AssigneeName(issue))
	fmt.Fprintf(ui.Out, "  Project:     %s\n", issue.Project)
	fmt.Fprintf(ui.Out, "  Created by:  %s\n", issue.CreatedBy)
	fmt.Fprintf(ui.Out, "  Desc:        %s\n", issue.Description)
	if len(issue.Tags) > 0 {
		fmt.Fprintf(ui.Out, "  Tags:        %s\n", strings.Join(issue.Tags, ", "))
	}
	if issue.DueDate != nil {
		fmt.Fprintf(ui.Out, "  Due:         %s\n", issue.DueDate.Format("2006-01-02"))
	}
	if issue.EstimatedHours > 0 {
		fmt.Fprintf(ui.Out, "  Estimated:   %.1fh\n", issue.EstimatedHours)
	}
	fmt.Fprintf(ui.Out, "  Logged:      %.1fh\n", issue.ActualHours)
	fmt.Fprintf(ui.Out, "  Created:     %s\n", issue.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(ui.Out, "  Updated:     %s\n", issue.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(ui.Out, "  Full ID:     %s\n", issue.ID)

	perms := tracker.PermissionsFor(user, issue)
	if next := tracker.NextStatuses(issue.Status); perms.Modify && len(next) > 0 {
		var names []string
		for _, st := range next {
			names = append(names, string(st))
		}
		fmt.Fprintf(ui.Out, "  Next:        %s\n", strings.Join(names, ", "))
	}

	sessions := t.SessionsForIssue(issue.ID)
	if len(sessions) > 0 {
		fmt.Fprintln(ui.Out)
		table := ui.Table([]string{"Date", "User", "Hours", "Description"})
		for _, ws := range sessions {
			_ = table.Append([]string{
				ws.Date.Format("2006-01-02"),
				dir.DisplayName(ws.UserID),
				fmt.Sprintf("%.1f", ws.Hours),
				ws.Description,
			})
		}
		_ = table.Render()
	}
	return nil
}

func issueUpdateRun(id string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issue, err := findIssue(t, id)
	if err != nil {
		return err
	}
	if !tracker.CanModify(user, issue) {
		return fmt.Errorf("you cannot modify issue %s (not yours, not a manager)", shortID(issue.ID))
	}

	upd := tracker.IssueUpdate{}
	changed := false
	if issueTitle != "" {
		title := strings.TrimSpace(issueTitle)
		if title == "" {
			return fmt.Errorf("title cannot be blank")
		}
		upd.Title = &title
		changed = true
	}
	if issueDesc != "" {
		desc := strings.TrimSpace(issueDesc)
		if desc == "" {
			return fmt.Errorf("description cannot be blank")
		}
		upd.Description = &desc
		changed = true
	}
	if issueUpdPriority != "" {
		p := models.IssuePriority(issueUpdPriority)
		if !models.ValidPriority(p) {
			return fmt.Errorf("unknown priority: %s", issueUpdPriority)
		}
		upd.Priority = &p
		changed = true
	}
	if issueUpdStatus != "" {
		st := models.IssueStatus(issueUpdStatus)
		if !models.ValidStatus(st) {
			return fmt.Errorf("unknown status: %s", issueUpdStatus)
		}
		upd.Status = &st
		changed = true
	}
	if issueAssignee != "" {
		if _, ok := dir.Lookup(issueAssignee); !ok {
			return fmt.Errorf("unknown assignee id: %s", issueAssignee)
		}
		upd.AssigneeID = &issueAssignee
		changed = true
	}
	if issueProject != "" {
		upd.Project = &issueProject
		changed = true
	}
	if issueTags != "" {
		upd.Tags = splitTags(issueTags)
		changed = true
	}
	if issueDue != "" {
		due, err := time.Parse("2006-01-02", issueDue)
		if err != nil {
			return fmt.Errorf("invalid due date %q (use YYYY-MM-DD)", issueDue)
		}
		upd.DueDate = &due
		changed = true
	}
	if issueUpdateCmd.Flags().Changed("estimate") {
		if issueUpdEstimate < 0 {
			return fmt.Errorf("estimate cannot be negative")
		}
		upd.EstimatedHours = &issueUpdEstimate
		changed = true
	}

	if !changed {
		return fmt.Errorf("no updates specified (use --title, --desc, --priority, --status, --assignee, --project, --tags, --due, or --estimate)")
	}

	updated, err := t.UpdateIssue(context.Background(), issue.ID, upd)
	if err != nil {
		return err
	}
	ui.Success("Updated issue %s: %s", output.Cyan(shortID(updated.ID)), updated.Title)
	return nil
}

func issueDeleteRun(id string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issue, err := findIssue(t, id)
	if err != nil {
		return err
	}
	if !tracker.CanModify(user, issue) {
		return fmt.Errorf("you cannot delete issue %s (not yours, not a manager)", shortID(issue.ID))
	}

	if err := t.DeleteIssue(context.Background(), issue.ID); err != nil {
		return err
	}
	ui.Success("Deleted issue %s and its work sessions", output.Cyan(shortID(issue.ID)))
	return nil
}

// issueStatusRun moves an issue to the given status through the normal
// update path, so the transition table applies.
func issueStatusRun(id string, status models.IssueStatus) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issue, err := findIssue(t, id)
	if err != nil {
		return err
	}
	if !tracker.CanModify(user, issue) {
		return fmt.Errorf("you cannot modify issue %s (not yours, not a manager)", shortID(issue.ID))
	}

	updated, err := t.UpdateIssue(context.Background(), issue.ID, tracker.IssueUpdate{Status: &status})
	if err != nil {
		return err
	}
	ui.Success("Issue %s is now %s", output.Cyan(shortID(updated.ID)), output.StatusColor(string(updated.Status)))
	return nil
}

func issueApproveRun(id string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issue, err := findIssue(t, id)
	if err != nil {
		return err
	}
	if !tracker.CanApprove(user, issue) {
		return fmt.Errorf("approving requires the manager role and an issue awaiting approval")
	}

	status := models.IssueStatusClosed
	updated, err := t.UpdateIssue(context.Background(), issue.ID, tracker.IssueUpdate{Status: &status})
	if err != nil {
		return err
	}
	ui.Success("Approved and closed issue %s: %s", output.Cyan(shortID(updated.ID)), updated.Title)
	return nil
}

// findIssue resolves an exact or unambiguous prefix match on issue ids.
func findIssue(t *tracker.Store, id string) (*models.Issue, error) {
	if issue, err := t.GetIssue(id); err == nil {
		return issue, nil
	}

	upper := strings.ToUpper(id)
	var matches []*models.Issue
	for _, issue := range t.Issues() {
		if strings.HasPrefix(strings.ToUpper(issue.ID), upper) {
			matches = append(matches, issue)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("issue not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous issue ID %s: matches %d issues", id, len(matches))
	}
}

// shortID truncates ULIDs for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
