// Copyright (c) 2026 Verdantia. All rights reserved.

package sec

import (
	"errors"
	"fmt"
)

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access: lifecycle transitions, hard deletes, featuring
	RoleAdmin Role = "admin"

	// Can create and manage their own plants, articles, and events
	RoleGardener Role = "gardener"

	// Default role for standard registered users: read and engage only
	RoleViewer Role = "viewer"
)

// ErrUnknownRole is returned when a role value is outside the closed set.
var ErrUnknownRole = errors.New("sec: unknown role")

// # Role Hierarchy

// LevelOf maps a role to its numeric hierarchy level.
//
// It fails with [ErrUnknownRole] for any value outside the closed set so that
// corrupted or forged role strings never silently pass a privilege check.
func LevelOf(role Role) (int, error) {
	level := role.level()
	if level == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}
	return level, nil
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	return r.level() > 0
}

// AtLeast checks if the current role meets or exceeds the required target role.
//
// An unknown role never satisfies any requirement, including against another
// unknown role.
func (r Role) AtLeast(target Role) bool {
	actual := r.level()
	required := target.level()
	if actual == 0 || required == 0 {
		return false
	}
	return actual >= required
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleGardener:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
