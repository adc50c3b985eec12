package models

import "time"

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super-admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleEditor     UserRole = "editor"
	UserRoleViewer     UserRole = "viewer"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleSuperAdmin, UserRoleAdmin, UserRoleEditor, UserRoleViewer:
		return true
	}
	return false
}

// User is the local identity. Email and Username are globally unique,
// Email is stored lowercase. RefreshTokenHash holds only a hash of the
// active refresh token; nil means no active session.
type User struct {
	ID               string
	Email            string
	Username         string
	PasswordHash     []byte
	Role             UserRole
	FirstName        *string
	LastName         *string
	ProfilePhotoURL  *string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
