package models

// Role represents a user's role on the platform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// User is the authenticated account as returned by the auth endpoints and
// mirrored into the local cookie store.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
