// Copyright (c) 2026 Verdantia. All rights reserved.

package authz

import (
	"github.com/verdantia/verdantia/internal/platform/apperr"
)

// # Decisions

// Reason is the machine-readable cause of an authorization denial.
type Reason string

const (
	ReasonBanned           Reason = "BANNED"
	ReasonInactive         Reason = "INACTIVE"
	ReasonSelfTarget       Reason = "SELF_TARGET"
	ReasonInsufficientRole Reason = "INSUFFICIENT_ROLE"
	ReasonNotOwner         Reason = "NOT_OWNER"
)

// Decision is the outcome of evaluating an action against an identity.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny produces a negative decision carrying the specific reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err converts a denial into the canonical [apperr.AppError].
// It returns nil for an allowed decision.
func (decision Decision) Err() error {
	if decision.Allowed {
		return nil
	}
	return apperr.ForbiddenCode(string(decision.Reason), denialMessage(decision.Reason))
}

// denialMessage maps a reason code to its client-safe message.
func denialMessage(reason Reason) string {
	switch reason {
	case ReasonBanned:
		return "Account is banned"
	case ReasonInactive:
		return "Account is deactivated"
	case ReasonSelfTarget:
		return "This action cannot target your own account"
	case ReasonInsufficientRole:
		return "Insufficient role for this action"
	case ReasonNotOwner:
		return "Only the owner or an admin may do this"
	default:
		return "Action is not permitted"
	}
}

// # Evaluation

/*
Authorize evaluates an action against an identity snapshot and optional resource.

Description: The rules run in a fixed order and the first match wins. The
ordering is load-bearing: a banned admin must never reach the role rules by
virtue of their role, and the self-target guard runs before any role rule so
that no role can bypass it.

Rule order:
 1. Banned identity        -> Deny(BANNED)
 2. Inactive identity      -> Deny(INACTIVE)
 3. Self-target guard      -> Deny(SELF_TARGET) for self-forbidden actions
 4. Exact role requirement -> Deny(INSUFFICIENT_ROLE)
 5. Minimum role           -> Deny(INSUFFICIENT_ROLE)
 6. Ownership              -> Deny(NOT_OWNER) unless owner or admin
 7. Otherwise              -> Allow

Parameters:
  - identity: Identity (per-request snapshot of the actor)
  - action: Action (declarative requirements)
  - resource: *Resource (target; required for owner-scoped and self-forbidden actions)

Returns:
  - Decision: Allow, or Deny with the specific reason
*/
func Authorize(identity Identity, action Action, resource *Resource) Decision {

	// 1. A ban dominates everything, including reads.
	if identity.IsBanned {
		return Deny(ReasonBanned)
	}

	// 2. A deactivated account is denied all actions.
	if !identity.IsActive {
		return Deny(ReasonInactive)
	}

	// 3. Self-target guard. Runs before any role rule so an admin cannot
	// ban, deactivate, demote, or delete themself.
	if action.SelfForbidden && resource != nil && resource.OwnerID == identity.ID {
		return Deny(ReasonSelfTarget)
	}

	// 4. Exact role requirement. Equality, not hierarchy.
	if action.ExactRole != "" && identity.Role != action.ExactRole {
		return Deny(ReasonInsufficientRole)
	}

	// 5. Minimum role requirement via the role hierarchy.
	if action.MinRole != "" && !identity.Role.AtLeast(action.MinRole) {
		return Deny(ReasonInsufficientRole)
	}

	// 6. Ownership: the owner or an admin.
	if action.OwnerScoped {
		if resource == nil {
			return Deny(ReasonNotOwner)
		}
		if resource.OwnerID != identity.ID && !identity.IsAdmin() {
			return Deny(ReasonNotOwner)
		}
	}

	// 7. Nothing denied the action.
	return Allow()
}
