package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/output"
	"github.com/bugtrackhq/bugtrack/internal/views"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show issue counts and time spent",
	Long: `Show the dashboard: issue counts by status and priority plus total
time spent. Developers see their assignments; managers see all teams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardRun()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardRun() error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	t, err := getTracker()
	if err != nil {
		return err
	}

	issues := t.ListForRole(user)

	scope := "Your assignments"
	if user.Role == models.RoleManager {
		scope = "Across all teams"
	}
	fmt.Fprintf(ui.Out, "Dashboard for %s (%s)\n\n", output.Cyan(user.Name), scope)

	byStatus := views.CountByStatus(issues)
	statusTable := ui.Table([]string{"Status", "Count"})
	for _, st := range models.Statuses {
		_ = statusTable.Append([]string{
			output.StatusColor(string(st)),
			fmt.Sprintf("%d", byStatus[st]),
		})
	}
	_ = statusTable.Render()
	fmt.Fprintln(ui.Out)

	byPriority := views.CountByPriority(issues)
	priorityTable := ui.Table([]string{"Priority", "Count"})
	for i := len(models.Priorities) - 1; i >= 0; i-- {
		p := models.Priorities[i]
		_ = priorityTable.Append([]string{
			output.PriorityColor(string(p)),
			fmt.Sprintf("%d", byPriority[p]),
		})
	}
	_ = priorityTable.Render()

	fmt.Fprintf(ui.Out, "\nTotal issues:     %d\n", len(issues))
	fmt.Fprintf(ui.Out, "Total time spent: %.1fh\n", views.TotalActualHours(issues))
	return nil
}
