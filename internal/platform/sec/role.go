// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage tags and moderate questions, answers, and comments
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Security Principal

// Principal is the request-scoped identity established by the authentication
// gate. The role is resolved from the user store at request time, never from
// the token itself, so role changes take effect without re-issuing tokens.
type Principal struct {
	UserID   int64
	Username string
	Role     UserRole
}
