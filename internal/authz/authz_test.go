// Copyright (c) 2026 Verdantia. All rights reserved.

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
)

func active(role sec.Role) authz.Identity {
	return authz.Identity{ID: "actor-1", Role: role, IsActive: true}
}

func TestAuthorize_BannedDominatesEverything(t *testing.T) {
	banned := authz.Identity{ID: "actor-1", Role: sec.RoleAdmin, IsActive: true, IsBanned: true}

	actions := []authz.Action{
		authz.ContentRead,
		authz.ContentCreate,
		authz.ContentHardDelete,
		authz.EngageCreate,
		authz.AccountList,
		authz.AccountBan,
	}

	for _, action := range actions {
		t.Run(action.Name, func(t *testing.T) {
			decision := authz.Authorize(banned, action, authz.TargetAccount("someone-else"))
			assert.False(t, decision.Allowed)
			assert.Equal(t, authz.ReasonBanned, decision.Reason)
		})
	}
}

func TestAuthorize_InactiveDeniedAfterBanCheck(t *testing.T) {
	inactive := authz.Identity{ID: "actor-1", Role: sec.RoleGardener, IsActive: false}

	decision := authz.Authorize(inactive, authz.ContentCreate, nil)
	assert.Equal(t, authz.ReasonInactive, decision.Reason)

	// When an identity is both banned and inactive, the ban reason wins.
	both := authz.Identity{ID: "actor-1", Role: sec.RoleGardener, IsActive: false, IsBanned: true}
	decision = authz.Authorize(both, authz.ContentCreate, nil)
	assert.Equal(t, authz.ReasonBanned, decision.Reason)
}

func TestAuthorize_SelfTargetGuardBeatsRole(t *testing.T) {
	admin := active(sec.RoleAdmin)

	// No role can target its own account with a self-forbidden action.
	decision := authz.Authorize(admin, authz.AccountBan, authz.TargetAccount(admin.ID))
	assert.False(t, decision.Allowed)
	assert.Equal(t, authz.ReasonSelfTarget, decision.Reason)

	// The same action against another account is fine.
	decision = authz.Authorize(admin, authz.AccountBan, authz.TargetAccount("other"))
	assert.True(t, decision.Allowed)

	// Unban is deliberately not self-forbidden.
	decision = authz.Authorize(admin, authz.AccountUnban, authz.TargetAccount(admin.ID))
	assert.True(t, decision.Allowed)
}

func TestAuthorize_ExactRoleIsNotHierarchical(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		allowed bool
	}{
		{name: "viewer", role: sec.RoleViewer, allowed: false},
		{name: "gardener", role: sec.RoleGardener, allowed: false},
		{name: "admin", role: sec.RoleAdmin, allowed: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decision := authz.Authorize(active(test.role), authz.ContentFeature, nil)
			assert.Equal(t, test.allowed, decision.Allowed)
			if !test.allowed {
				assert.Equal(t, authz.ReasonInsufficientRole, decision.Reason)
			}
		})
	}
}

func TestAuthorize_MinRoleUsesHierarchy(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		allowed bool
	}{
		{name: "viewer_denied", role: sec.RoleViewer, allowed: false},
		{name: "gardener_allowed", role: sec.RoleGardener, allowed: true},
		{name: "admin_allowed", role: sec.RoleAdmin, allowed: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decision := authz.Authorize(active(test.role), authz.ContentCreate, nil)
			assert.Equal(t, test.allowed, decision.Allowed)
		})
	}
}

func TestAuthorize_Ownership(t *testing.T) {
	owner := active(sec.RoleGardener)
	resource := authz.OwnedBy(owner.ID)

	t.Run("owner_allowed", func(t *testing.T) {
		assert.True(t, authz.Authorize(owner, authz.ContentUpdate, resource).Allowed)
	})

	t.Run("stranger_denied", func(t *testing.T) {
		stranger := authz.Identity{ID: "actor-2", Role: sec.RoleGardener, IsActive: true}
		decision := authz.Authorize(stranger, authz.ContentUpdate, resource)
		assert.False(t, decision.Allowed)
		assert.Equal(t, authz.ReasonNotOwner, decision.Reason)
	})

	t.Run("admin_overrides_ownership", func(t *testing.T) {
		admin := authz.Identity{ID: "actor-3", Role: sec.RoleAdmin, IsActive: true}
		assert.True(t, authz.Authorize(admin, authz.ContentUpdate, resource).Allowed)
	})

	t.Run("nil_resource_denied", func(t *testing.T) {
		decision := authz.Authorize(owner, authz.ContentUpdate, nil)
		assert.Equal(t, authz.ReasonNotOwner, decision.Reason)
	})
}

func TestDecision_Err(t *testing.T) {
	require.NoError(t, authz.Allow().Err())

	err := authz.Deny(authz.ReasonInsufficientRole).Err()
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INSUFFICIENT_ROLE", appError.Code)
	assert.Equal(t, 403, appError.HTTPStatus)
}
