package domain

import "time"

// UserRole distinguishes administrators from citizens.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User is an account that submits cases or administers them.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         UserRole
	// DemotedAt is set when an admin was demoted; it separates demoted admins from citizens.
	DemotedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user currently holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
