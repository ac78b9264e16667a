package tracker

import "github.com/bugtrackhq/bugtrack/internal/models"

// PermissionSet is the explicit capability set for one identity acting on
// one issue, consumed by the CLI layer instead of scattering role-string
// comparisons across views.
type PermissionSet struct {
	Modify  bool // edit fields, change status, delete, log time
	Approve bool // close an issue awaiting approval
}

// CanModify reports whether the identity may mutate the issue: managers
// always, others only on their own assignments.
func CanModify(identity models.User, issue *models.Issue) bool {
	return identity.Role == models.RoleManager || issue.AssigneeID == identity.ID
}

// CanApprove reports whether the identity may approve the issue: only a
// manager, and only while the issue awaits approval.
func CanApprove(identity models.User, issue *models.Issue) bool {
	return identity.Role == models.RoleManager && issue.Status == models.IssueStatusPendingApproval
}

// PermissionsFor returns the full capability set in one call.
func PermissionsFor(identity models.User, issue *models.Issue) PermissionSet {
	return PermissionSet{
		Modify:  CanModify(identity, issue),
		Approve: CanApprove(identity, issue),
	}
}
