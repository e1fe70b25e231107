// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package account implements the account lifecycle and administration domain.

It owns every mutation of an account's lifecycle state: role changes,
activation toggles, bans, unbans, and permanent deletion. The auth package
reads accounts to authenticate them; this package is the only writer of
lifecycle columns, so the invariants around them live in exactly one place.

# Lifecycle Axes

An account carries two independent lifecycle axes on top of its role:

  - Active: reversible self-or-admin deactivation. An inactive account keeps
    its data and may be reactivated.
  - Banned: an administrative sanction with a mandatory reason. A ban
    dominates everything else, including the admin role.

The axes are fully orthogonal: banning does not touch the active flag and
unbanning restores exactly the pre-ban state.
*/
package account

import (
	"context"

	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/users/auth"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// # Repository Contracts

// ListFilter narrows the admin account listing.
type ListFilter struct {
	// Role filters by exact role when non-empty.
	Role sec.Role
	// Status filters by lifecycle state: "active", "inactive", "banned".
	Status string
	// Search matches username or email substrings.
	Search string

	Page pagination.Params
}

// Account listing statuses accepted by [ListFilter.Status].
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBanned   = "banned"
)

// AccountRepository defines persistence operations for account lifecycle
// management. It deliberately overlaps with auth.UserRepository on reads but
// is the sole owner of lifecycle writes.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
	Update(ctx context.Context, user *auth.User) error
	List(ctx context.Context, filter ListFilter) ([]auth.User, int, error)

	// Lifecycle writes.
	UpdateRole(ctx context.Context, userID string, role sec.Role) error
	SetActive(ctx context.Context, userID string, active bool) error
	SetBan(ctx context.Context, userID, reason, bannedBy string) error
	ClearBan(ctx context.Context, userID string) error

	// PurgeAccount removes the account and everything it owns in a single
	// transaction: authored engagement records, engagement records attached
	// to the account's content, the content itself, sessions, and finally
	// the account row.
	PurgeAccount(ctx context.Context, userID string) error

	// CountApprovedContributions reports how many of the account's content
	// items have reached the published (or, for plants, visible) state. The
	// count drives the login-time promotion rule.
	CountApprovedContributions(ctx context.Context, userID string) (int, error)
}

// SessionRevoker is the narrow slice of session persistence the lifecycle
// manager needs: a ban or deactivation must kill every live session.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

// # JSON Field Names

const (
	FieldRole      = "role"
	FieldActive    = "active"
	FieldReason    = "reason"
	FieldStatus    = "status"
	FieldUserID    = "user_id"
	FieldMessage   = "message"
	FieldPromotion = "promotion"
)
