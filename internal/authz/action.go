// Copyright (c) 2026 Verdantia. All rights reserved.

package authz

import "github.com/verdantia/verdantia/internal/platform/sec"

// # Action Catalogue

// Action declares what an operation requires from the acting identity.
//
// Actions are data, not code: centralizing them here eliminates the scattered
// per-feature role comparisons that made the legacy authorization logic
// inconsistent. New operations add a value below and nothing else.
type Action struct {
	// Name identifies the action in decisions and audit logs.
	Name string

	// MinRole, when set, requires the identity's role to meet or exceed it.
	MinRole sec.Role

	// ExactRole, when set, requires the identity's role to equal it.
	// A higher role does not satisfy an exact requirement.
	ExactRole sec.Role

	// OwnerScoped actions are allowed only for the resource owner or an admin.
	OwnerScoped bool

	// SelfForbidden actions are always denied when the actor targets their own
	// account, regardless of role. This prevents admin lockout.
	SelfForbidden bool
}

// Content actions shared by plants, articles, and events.
var (
	// ContentRead is satisfied by any resolvable identity; per-item visibility
	// filtering happens in the content services.
	ContentRead = Action{Name: "content.read"}

	// ContentCreate requires at least the gardener role.
	ContentCreate = Action{Name: "content.create", MinRole: sec.RoleGardener}

	// ContentUpdate covers metadata edits; owner or admin.
	ContentUpdate = Action{Name: "content.update", OwnerScoped: true}

	// ContentPublish covers publication-axis transitions; owner or admin.
	ContentPublish = Action{Name: "content.publish", OwnerScoped: true}

	// ContentSoftDelete toggles the reversible visibility flag; owner or admin.
	ContentSoftDelete = Action{Name: "content.soft_delete", OwnerScoped: true}

	// ContentHardDelete is irreversible and cascades; exact admin only.
	ContentHardDelete = Action{Name: "content.hard_delete", ExactRole: sec.RoleAdmin}

	// ContentFeature toggles the featured flag; exact admin, ignores ownership.
	ContentFeature = Action{Name: "content.feature", ExactRole: sec.RoleAdmin}
)

// Engagement actions for reviews, favorites, and likes.
var (
	EngageCreate = Action{Name: "engage.create", MinRole: sec.RoleViewer}
	EngageDelete = Action{Name: "engage.delete", OwnerScoped: true}
)

// Account lifecycle actions. All admin-only; the irreversible or
// state-changing ones are additionally self-forbidden.
var (
	AccountList       = Action{Name: "account.list", ExactRole: sec.RoleAdmin}
	AccountChangeRole = Action{Name: "account.change_role", ExactRole: sec.RoleAdmin, SelfForbidden: true}
	AccountSetActive  = Action{Name: "account.set_active", ExactRole: sec.RoleAdmin, SelfForbidden: true}
	AccountBan        = Action{Name: "account.ban", ExactRole: sec.RoleAdmin, SelfForbidden: true}
	AccountUnban      = Action{Name: "account.unban", ExactRole: sec.RoleAdmin}
	AccountDelete     = Action{Name: "account.delete", ExactRole: sec.RoleAdmin, SelfForbidden: true}
)
