package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/tracker"
)

var (
	exportFormat string
	exportType   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON, YAML, CSV, or Markdown",
	Long:  "Export issues or work sessions in various formats. Role scoping applies.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, yaml, csv, markdown")
	exportCmd.Flags().StringVar(&exportType, "type", "issues", "Data type: issues, sessions")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	switch exportType {
	case "issues":
		return exportIssues(t, user)
	case "sessions":
		return exportSessions(t, user)
	default:
		return fmt.Errorf("unknown export type: %s (use: issues, sessions)", exportType)
	}
}

func exportIssues(t *tracker.Store, user models.User) error {
	issues := t.ListForRole(user)

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	case "yaml":
		return yaml.NewEncoder(ui.Out).Encode(issues)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Title", "Status", "Priority", "Assignee", "Project", "Estimated", "Actual", "Tags", "Created"})
		for _, issue := range issues {
			w.Write([]string{
				issue.ID, issue.Title, string(issue.Status), string(issue.Priority),
				t.AssigneeName(issue), issue.Project,
				fmt.Sprintf("%.1f", issue.EstimatedHours),
				fmt.Sprintf("%.1f", issue.ActualHours),
				strings.Join(issue.Tags, " "),
				issue.CreatedAt.Format("2006-01-02"),
			})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Issues")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Title | Status | Priority | Assignee | Project | Hours |")
		fmt.Fprintln(ui.Out, "|-------|--------|----------|----------|---------|-------|")
		for _, issue := range issues {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s | %.1f |\n",
				issue.Title, issue.Status, issue.Priority, t.AssigneeName(issue), issue.Project, issue.ActualHours)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

func exportSessions(t *tracker.Store, user models.User) error {
	var sessions []*models.WorkSession
	if user.Role == models.RoleManager {
		sessions = t.WorkSessions()
	} else {
		sessions = t.SessionsForUser(user.ID)
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	case "yaml":
		return yaml.NewEncoder(ui.Out).Encode(sessions)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "IssueID", "UserID", "Hours", "Description", "Date"})
		for _, ws := range sessions {
			w.Write([]string{
				ws.ID, ws.IssueID, ws.UserID,
				fmt.Sprintf("%.1f", ws.Hours),
				ws.Description,
				ws.Date.Format("2006-01-02"),
			})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Work Sessions")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Date | User | Hours | Description |")
		fmt.Fprintln(ui.Out, "|------|------|-------|-------------|")
		for _, ws := range sessions {
			fmt.Fprintf(ui.Out, "| %s | %s | %.1f | %s |\n",
				ws.Date.Format("2006-01-02"), dir.DisplayName(ws.UserID), ws.Hours, ws.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}
