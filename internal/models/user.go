package models

// Role controls visibility and approval rights.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleManager   Role = "manager"
)

// User is an identity known to the directory.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}
