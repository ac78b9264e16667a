// Package directory provides the static identity directory: the fixed set
// of known users consulted for display names, authentication lookups, and
// role checks. It is read-only at runtime and injected explicitly into the
// components that need it.
package directory

import (
	"github.com/bugtrackhq/bugtrack/internal/models"
)

// Directory is a static mapping of user id to identity.
type Directory struct {
	users []models.User
}

// New returns a directory over the given users.
func New(users []models.User) *Directory {
	return &Directory{users: users}
}

// Default returns the directory of seed identities.
func Default() *Directory {
	return New([]models.User{
		{ID: "1", Username: "dev1", Email: "dev1@example.com", Role: models.RoleDeveloper, Name: "John"},
		{ID: "2", Username: "manager1", Email: "manager1@example.com", Role: models.RoleManager, Name: "Jane"},
		{ID: "3", Username: "dev2", Email: "dev2@example.com", Role: models.RoleDeveloper, Name: "Bob"},
	})
}

// Lookup returns the user with the given id.
func (d *Directory) Lookup(id string) (models.User, bool) {
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// FindByUsername returns the user with the given username.
func (d *Directory) FindByUsername(username string) (models.User, bool) {
	for _, u := range d.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// DisplayName resolves an id to a display name, or "" if unknown.
// Callers use this for read-time joins instead of caching names on issues.
func (d *Directory) DisplayName(id string) string {
	u, ok := d.Lookup(id)
	if !ok {
		return ""
	}
	return u.Name
}

// Users returns all directory entries in declaration order.
func (d *Directory) Users() []models.User {
	out := make([]models.User, len(d.users))
	copy(out, d.users)
	return out
}
