package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrackhq/bugtrack/internal/models"
)

func TestLookup(t *testing.T) {
	d := Default()

	u, ok := d.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, models.RoleManager, u.Role)

	_, ok = d.Lookup("99")
	assert.False(t, ok)
}

func TestFindByUsername(t *testing.T) {
	d := Default()

	u, ok := d.FindByUsername("dev2")
	require.True(t, ok)
	assert.Equal(t, "3", u.ID)
	assert.Equal(t, models.RoleDeveloper, u.Role)

	_, ok = d.FindByUsername("nobody")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	d := Default()

	assert.Equal(t, "John", d.DisplayName("1"))
	assert.Equal(t, "", d.DisplayName("unknown"))
}

func TestUsers_ReturnsCopy(t *testing.T) {
	d := Default()

	users := d.Users()
	require.Len(t, users, 3)

	users[0].Name = "mutated"
	assert.Equal(t, "John", d.DisplayName("1"), "callers must not be able to mutate the directory")
}
