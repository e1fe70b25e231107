// Copyright (c) 2026 Verdantia. All rights reserved.

package account_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/users/account"
	"github.com/verdantia/verdantia/internal/users/auth"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Test Doubles

type stubAccountRepo struct {
	users         map[string]*auth.User
	contributions map[string]int
	purged        []string
}

func newStubAccountRepo(users ...*auth.User) *stubAccountRepo {
	repo := &stubAccountRepo{
		users:         map[string]*auth.User{},
		contributions: map[string]int{},
	}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *stubAccountRepo) Update(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, filter account.ListFilter) ([]auth.User, int, error) {
	var out []auth.User
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, userID string, role sec.Role) error {
	if user, ok := r.users[userID]; ok {
		user.Role = role
	}
	return nil
}

func (r *stubAccountRepo) SetActive(_ context.Context, userID string, active bool) error {
	if user, ok := r.users[userID]; ok {
		user.IsActive = active
	}
	return nil
}

func (r *stubAccountRepo) SetBan(_ context.Context, userID, reason, bannedBy string) error {
	if user, ok := r.users[userID]; ok {
		now := time.Now()
		user.IsBanned = true
		user.BanReason = reason
		user.BannedAt = &now
		user.BannedBy = bannedBy
	}
	return nil
}

func (r *stubAccountRepo) ClearBan(_ context.Context, userID string) error {
	if user, ok := r.users[userID]; ok {
		user.IsBanned = false
		user.BanReason = ""
		user.BannedAt = nil
		user.BannedBy = ""
	}
	return nil
}

func (r *stubAccountRepo) PurgeAccount(_ context.Context, userID string) error {
	delete(r.users, userID)
	r.purged = append(r.purged, userID)
	return nil
}

func (r *stubAccountRepo) CountApprovedContributions(_ context.Context, userID string) (int, error) {
	return r.contributions[userID], nil
}

type stubRevoker struct {
	revoked []string
}

func (s *stubRevoker) RevokeAll(_ context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

// # Fixtures

func newUser(role sec.Role) *auth.User {
	return &auth.User{
		ID:       uuid.New(),
		Username: "user-" + uuid.New()[:8],
		Role:     role,
		IsActive: true,
	}
}

func identityOf(user *auth.User) *authz.Identity {
	identity := user.Identity()
	return &identity
}

type fixture struct {
	service *account.Service
	repo    *stubAccountRepo
	revoker *stubRevoker
	admin   *auth.User
	target  *auth.User
}

func newFixture(users ...*auth.User) *fixture {
	admin := newUser(sec.RoleAdmin)
	target := newUser(sec.RoleViewer)
	all := append([]*auth.User{admin, target}, users...)

	repo := newStubAccountRepo(all...)
	revoker := &stubRevoker{}
	return &fixture{
		service: account.NewService(repo, revoker, slog.Default()),
		repo:    repo,
		revoker: revoker,
		admin:   admin,
		target:  target,
	}
}

// # Role Changes

func TestService_ChangeRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.ChangeRole(ctx, identityOf(f.admin), f.target.ID, sec.RoleGardener)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleGardener, user.Role)
	assert.Equal(t, sec.RoleGardener, f.repo.users[f.target.ID].Role)
}

func TestService_ChangeRole_SameRoleIsNoOp(t *testing.T) {
	f := newFixture()

	user, err := f.service.ChangeRole(context.Background(), identityOf(f.admin), f.target.ID, sec.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleViewer, user.Role)
}

func TestService_ChangeRole_Denials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("self_target", func(t *testing.T) {
		_, err := f.service.ChangeRole(ctx, identityOf(f.admin), f.admin.ID, sec.RoleViewer)
		require.Error(t, err)
		assert.Equal(t, "SELF_TARGET", apperr.As(err).Code)
	})

	t.Run("non_admin_actor", func(t *testing.T) {
		gardener := newUser(sec.RoleGardener)
		_, err := f.service.ChangeRole(ctx, identityOf(gardener), f.target.ID, sec.RoleGardener)
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
	})

	t.Run("banned_admin", func(t *testing.T) {
		bannedAdmin := identityOf(f.admin)
		bannedAdmin.IsBanned = true
		_, err := f.service.ChangeRole(ctx, bannedAdmin, f.target.ID, sec.RoleGardener)
		require.Error(t, err)
		// A ban dominates even the admin role.
		assert.Equal(t, "BANNED", apperr.As(err).Code)
	})

	t.Run("unknown_role", func(t *testing.T) {
		_, err := f.service.ChangeRole(ctx, identityOf(f.admin), f.target.ID, sec.Role("botanist"))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("unknown_target", func(t *testing.T) {
		_, err := f.service.ChangeRole(ctx, identityOf(f.admin), "missing", sec.RoleGardener)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}

// # Activation Axis

func TestService_SetActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.SetActive(ctx, identityOf(f.admin), f.target.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	// Deactivation kills live sessions.
	assert.Contains(t, f.revoker.revoked, f.target.ID)

	// Setting the current state again is a no-op success.
	_, err = f.service.SetActive(ctx, identityOf(f.admin), f.target.ID, false)
	require.NoError(t, err)

	// Reactivation restores the account.
	user, err = f.service.SetActive(ctx, identityOf(f.admin), f.target.ID, true)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestService_SetActive_SelfForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.service.SetActive(context.Background(), identityOf(f.admin), f.admin.ID, false)
	require.Error(t, err)
	assert.Equal(t, "SELF_TARGET", apperr.As(err).Code)
}

// # Ban Axis

func TestService_Ban(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, "repeated spam")
	require.NoError(t, err)
	assert.True(t, user.IsBanned)
	assert.Equal(t, "repeated spam", user.BanReason)
	assert.Equal(t, f.admin.ID, f.repo.users[f.target.ID].BannedBy)
	assert.Contains(t, f.revoker.revoked, f.target.ID)

	// The ban does not touch the activation axis.
	assert.True(t, user.IsActive)
}

func TestService_Ban_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("missing_reason", func(t *testing.T) {
		_, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, "   ")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("reason_too_long", func(t *testing.T) {
		_, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, strings.Repeat("x", 501))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("multibyte_reason_at_cap", func(t *testing.T) {
		f := newFixture()
		// 500 characters but well over 500 bytes; the cap counts characters.
		user, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, strings.Repeat("ä", 500))
		require.NoError(t, err)
		assert.True(t, user.IsBanned)
	})

	t.Run("multibyte_reason_over_cap", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, strings.Repeat("ä", 501))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("self_ban", func(t *testing.T) {
		_, err := f.service.Ban(ctx, identityOf(f.admin), f.admin.ID, "reason")
		require.Error(t, err)
		assert.Equal(t, "SELF_TARGET", apperr.As(err).Code)
	})
}

func TestService_Ban_AlreadyBannedConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Ban(ctx, identityOf(f.admin), f.target.ID, "first")
	require.NoError(t, err)

	_, err = f.service.Ban(ctx, identityOf(f.admin), f.target.ID, "second")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	// The original reason survives.
	assert.Equal(t, "first", f.repo.users[f.target.ID].BanReason)
}

func TestService_Unban(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Deactivate, then ban: unban must restore exactly the pre-ban state.
	_, err := f.service.SetActive(ctx, identityOf(f.admin), f.target.ID, false)
	require.NoError(t, err)
	_, err = f.service.Ban(ctx, identityOf(f.admin), f.target.ID, "spam")
	require.NoError(t, err)

	user, err := f.service.Unban(ctx, identityOf(f.admin), f.target.ID)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)
	assert.Empty(t, user.BanReason)
	assert.False(t, user.IsActive, "unban must not reactivate a deactivated account")
}

func TestService_Unban_NotBannedIsNoOp(t *testing.T) {
	f := newFixture()

	user, err := f.service.Unban(context.Background(), identityOf(f.admin), f.target.ID)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)
}

// # Permanent Deletion

func TestService_PermanentlyDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.PermanentlyDelete(ctx, identityOf(f.admin), f.target.ID))
	assert.Contains(t, f.repo.purged, f.target.ID)

	// A second delete of the same account is a 404, not a silent success.
	err := f.service.PermanentlyDelete(ctx, identityOf(f.admin), f.target.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_PermanentlyDelete_SelfForbidden(t *testing.T) {
	f := newFixture()

	err := f.service.PermanentlyDelete(context.Background(), identityOf(f.admin), f.admin.ID)
	require.Error(t, err)
	assert.Equal(t, "SELF_TARGET", apperr.As(err).Code)
	assert.Empty(t, f.repo.purged)
}

// # Promotion Rule

func TestService_PromoteIfEligible(t *testing.T) {
	tests := []struct {
		name          string
		role          sec.Role
		contributions int
		wantPromoted  bool
	}{
		{"below_threshold", sec.RoleViewer, 4, false},
		{"at_threshold", sec.RoleViewer, 5, true},
		{"above_threshold", sec.RoleViewer, 12, true},
		{"gardener_untouched", sec.RoleGardener, 50, false},
		{"admin_untouched", sec.RoleAdmin, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			user := newUser(tt.role)
			f.repo.users[user.ID] = user
			f.repo.contributions[user.ID] = tt.contributions

			promoted, reason, err := f.service.PromoteIfEligible(context.Background(), user)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPromoted, promoted)

			if tt.wantPromoted {
				assert.Equal(t, sec.RoleGardener, user.Role)
				assert.NotEmpty(t, reason)

				// Idempotence: a second evaluation changes nothing.
				promoted, _, err := f.service.PromoteIfEligible(context.Background(), user)
				require.NoError(t, err)
				assert.False(t, promoted)
				assert.Equal(t, sec.RoleGardener, user.Role)
			} else {
				assert.Equal(t, tt.role, user.Role)
			}
		})
	}
}
