package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bugtrackhq/bugtrack/internal/models"
)

var (
	manager  = models.User{ID: "2", Role: models.RoleManager, Name: "Jane"}
	assignee = models.User{ID: "1", Role: models.RoleDeveloper, Name: "John"}
	outsider = models.User{ID: "3", Role: models.RoleDeveloper, Name: "Bob"}
)

func TestCanModify(t *testing.T) {
	issue := &models.Issue{ID: "i1", AssigneeID: "1", Status: models.IssueStatusOpen}

	assert.True(t, CanModify(manager, issue), "managers modify anything")
	assert.True(t, CanModify(assignee, issue), "assignee modifies their own issue")
	assert.False(t, CanModify(outsider, issue), "other developers may not")
}

func TestCanApprove(t *testing.T) {
	waiting := &models.Issue{ID: "i1", AssigneeID: "1", Status: models.IssueStatusPendingApproval}
	open := &models.Issue{ID: "i2", AssigneeID: "1", Status: models.IssueStatusOpen}

	assert.True(t, CanApprove(manager, waiting))
	assert.False(t, CanApprove(manager, open), "only pending-approval issues are approvable")
	assert.False(t, CanApprove(assignee, waiting), "developers never approve, even their own")
}

func TestPermissionsFor(t *testing.T) {
	waiting := &models.Issue{ID: "i1", AssigneeID: "1", Status: models.IssueStatusPendingApproval}

	perms := PermissionsFor(manager, waiting)
	assert.True(t, perms.Modify)
	assert.True(t, perms.Approve)

	perms = PermissionsFor(assignee, waiting)
	assert.True(t, perms.Modify)
	assert.False(t, perms.Approve)

	perms = PermissionsFor(outsider, waiting)
	assert.False(t, perms.Modify)
	assert.False(t, perms.Approve)
}
