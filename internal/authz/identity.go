// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package authz implements the authorization core of the Verdantia platform.

Every permission check in the system goes through [Authorize], which evaluates
a fixed, ordered rule list against an explicit [Identity] snapshot. There is no
ambient "current user" state anywhere: the snapshot is resolved once per request
by the identity resolver and passed into every core call.

# Architecture

  - Identity: an immutable per-request view of an account.
  - Action: a declarative description of what an operation requires.
  - Authorize: the single ordered rule list producing a [Decision] with the
    specific denial reason, never a generic failure.
*/
package authz

import (
	"github.com/verdantia/verdantia/internal/platform/sec"
)

// # Identity Snapshot

// Identity is the per-request snapshot of an authenticated account.
//
// # Freshness
//
// The snapshot is resolved from the store at the start of the request and is
// treated as valid only for that request. Mutations made during the request
// are not reflected back into an already-resolved snapshot.
type Identity struct {
	// ID is the stable account identifier (UUIDv7).
	ID string

	// Role is the account's role in the viewer < gardener < admin hierarchy.
	Role sec.Role

	// IsActive is false when the account has been deactivated by an admin.
	IsActive bool

	// IsBanned dominates every other attribute: a banned identity is denied
	// all actions regardless of role.
	IsBanned bool

	// BanReason is only present when IsBanned is true.
	BanReason string
}

// IsAdmin reports whether the identity holds the exact admin role.
func (identity Identity) IsAdmin() bool {
	return identity.Role == sec.RoleAdmin
}

// # Resource

// Resource describes the target of an owner-scoped or self-targeting action.
//
// For content items, OwnerID is the creator of the item. For account lifecycle
// actions, OwnerID is the target account itself, which is what makes the
// self-target guard a plain ownership comparison.
type Resource struct {
	OwnerID string
}

// TargetAccount builds the [Resource] for an account lifecycle action.
func TargetAccount(accountID string) *Resource {
	return &Resource{OwnerID: accountID}
}

// OwnedBy builds the [Resource] for a content item owned by the given account.
func OwnedBy(ownerID string) *Resource {
	return &Resource{OwnerID: ownerID}
}
