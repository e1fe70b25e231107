// Copyright (c) 2026 Verdantia. All rights reserved.

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/users/auth"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Test Doubles

type stubUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newStubUserRepo(users ...*auth.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[string]*auth.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *stubUserRepo) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

type stubSessionRepo struct {
	sessions map[string]*auth.Session // keyed by ID
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]*auth.Session{}}
}

func (r *stubSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *stubSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range r.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (r *stubSessionRepo) Revoke(_ context.Context, sessionID string) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (r *stubSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *stubSessionRepo) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context) error { return nil }

func (r *stubSessionRepo) active(userID string) int {
	count := 0
	for _, session := range r.sessions {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type stubResetRepo struct {
	tokens map[string]string // token -> userID
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{tokens: map[string]string{}}
}

func (r *stubResetRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *stubResetRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := r.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (r *stubResetRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type stubPromoter struct {
	promote bool
	calls   int
}

func (p *stubPromoter) PromoteIfEligible(_ context.Context, user *auth.User) (bool, string, error) {
	p.calls++
	if p.promote {
		user.Role = sec.RoleGardener
		return true, "Promoted after 5 approved contributions", nil
	}
	return false, "", nil
}

// # Fixtures

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, "verdantia.test")
}

func newTestUser(t *testing.T, role sec.Role, password string) *auth.User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return &auth.User{
		ID:           uuid.New(),
		Username:     "fern-" + uuid.New()[:8],
		Email:        uuid.New()[:8] + "@verdantia.test",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

type fixture struct {
	service  *auth.Service
	users    *stubUserRepo
	sessions *stubSessionRepo
	resets   *stubResetRepo
	promoter *stubPromoter
}

func newFixture(t *testing.T, users ...*auth.User) *fixture {
	t.Helper()
	f := &fixture{
		users:    newStubUserRepo(users...),
		sessions: newStubSessionRepo(),
		resets:   newStubResetRepo(),
		promoter: &stubPromoter{},
	}
	f.service = auth.NewService(f.users, f.sessions, f.resets, newTestTokenService(t), f.promoter)
	return f
}

// # Registration

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		wantRole sec.Role
		wantErr  string
	}{
		{"defaults_to_viewer", "", sec.RoleViewer, ""},
		{"viewer_allowed", sec.RoleViewer, sec.RoleViewer, ""},
		{"gardener_allowed", sec.RoleGardener, sec.RoleGardener, ""},
		{"admin_rejected", sec.RoleAdmin, "", "VALIDATION_ERROR"},
		{"unknown_rejected", sec.Role("botanist"), "", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			user, err := f.service.Register(context.Background(), auth.RegisterInput{
				Username: "moss",
				Email:    "moss@verdantia.test",
				Password: "correct-horse",
				Role:     tt.role,
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, tt.wantErr, ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.True(t, user.IsActive)
			assert.False(t, user.IsBanned)
			assert.NotEqual(t, "correct-horse", user.PasswordHash)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	existing := newTestUser(t, sec.RoleViewer, "pw-existing")
	f := newFixture(t, existing)

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "other",
		Email:    existing.Email,
		Password: "irrelevant",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

// # Login

func TestService_Login(t *testing.T) {
	user := newTestUser(t, sec.RoleGardener, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, 1, f.sessions.active(user.ID))

	// Gardeners never pass through the promotion rule.
	assert.Equal(t, 0, f.promoter.calls)
}

func TestService_Login_ByUsername(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Username,
		Password: "green-thumb",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
}

func TestService_Login_Denials(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*auth.User)
		password   string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wrong_password",
			mutate:     func(u *auth.User) {},
			password:   "wrong",
			wantStatus: 401,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "banned_account",
			mutate:     func(u *auth.User) { u.IsBanned = true; u.BanReason = "spam" },
			password:   "green-thumb",
			wantStatus: 403,
			wantCode:   "BANNED",
		},
		{
			name:       "deactivated_account",
			mutate:     func(u *auth.User) { u.IsActive = false },
			password:   "green-thumb",
			wantStatus: 403,
			wantCode:   "INACTIVE",
		},
		{
			name:       "ban_reported_before_inactive",
			mutate:     func(u *auth.User) { u.IsBanned = true; u.BanReason = "spam"; u.IsActive = false },
			password:   "green-thumb",
			wantStatus: 403,
			wantCode:   "BANNED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(t, sec.RoleViewer, "green-thumb")
			tt.mutate(user)
			f := newFixture(t, user)

			_, err := f.service.Login(context.Background(), auth.LoginInput{
				Login:    user.Email,
				Password: tt.password,
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, 0, f.sessions.active(user.ID))
		})
	}
}

func TestService_Login_BanMessageCarriesReason(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	user.IsBanned = true
	user.BanReason = "repeated plagiarism"
	f := newFixture(t, user)

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repeated plagiarism")
}

func TestService_Login_UnknownUserIsGeneric(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "ghost@verdantia.test",
		Password: "anything",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	// Enumeration safety: same response as a wrong password.
	assert.Equal(t, 401, ae.HTTPStatus)
	assert.Equal(t, "Invalid login credentials", ae.Message)
}

func TestService_Login_PromotesEligibleViewer(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)
	f.promoter.promote = true

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})

	require.NoError(t, err)
	assert.True(t, session.WasPromoted)
	assert.Equal(t, sec.RoleGardener, session.User.Role)
	assert.Equal(t, 1, f.promoter.calls)

	// The issued access token must carry the upgraded role.
	identity, err := f.service.ResolveIdentity(context.Background(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleGardener, identity.Role)
}

// # Identity Resolution

func TestService_ResolveIdentity(t *testing.T) {
	user := newTestUser(t, sec.RoleGardener, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})
	require.NoError(t, err)

	identity, err := f.service.ResolveIdentity(context.Background(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, sec.RoleGardener, identity.Role)
	assert.True(t, identity.IsActive)
	assert.False(t, identity.IsBanned)
}

func TestService_ResolveIdentity_Failures(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})
	require.NoError(t, err)

	t.Run("malformed_token", func(t *testing.T) {
		_, err := f.service.ResolveIdentity(context.Background(), "not-a-jwt")
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIAL", apperr.As(err).Code)
	})

	t.Run("account_deleted_after_issuance", func(t *testing.T) {
		delete(f.users.users, user.ID)
		defer func() { f.users.users[user.ID] = user }()

		_, err := f.service.ResolveIdentity(context.Background(), session.AccessToken)
		require.Error(t, err)
		assert.Equal(t, "IDENTITY_NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("ban_takes_effect_immediately", func(t *testing.T) {
		user.IsBanned = true
		user.BanReason = "spam"
		defer func() { user.IsBanned = false; user.BanReason = "" }()

		// The token is still cryptographically valid; the fresh snapshot denies.
		_, err := f.service.ResolveIdentity(context.Background(), session.AccessToken)
		require.Error(t, err)
		ae := apperr.As(err)
		assert.Equal(t, "BANNED", ae.Code)
		assert.Equal(t, 403, ae.HTTPStatus)
		assert.Contains(t, ae.Message, "spam")
	})

	t.Run("deactivation_takes_effect_immediately", func(t *testing.T) {
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, err := f.service.ResolveIdentity(context.Background(), session.AccessToken)
		require.Error(t, err)
		assert.Equal(t, "INACTIVE", apperr.As(err).Code)
	})
}

// # Session Rotation

func TestService_RefreshSession_Rotation(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)

	first, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})
	require.NoError(t, err)

	second, err := f.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replaying the rotated-out token must fail.
	_, err = f.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestService_RefreshSession_BannedMidSession(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})
	require.NoError(t, err)

	user.IsBanned = true
	user.BanReason = "spam"

	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.Equal(t, "BANNED", apperr.As(err).Code)
}

func TestService_Logout_Idempotent(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "green-thumb")
	f := newFixture(t, user)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "green-thumb",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, f.sessions.active(user.ID))

	// Second logout of the same token is still a success.
	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))

	// Unknown token is also a success.
	require.NoError(t, f.service.Logout(context.Background(), "never-issued"))
}

// # Password Recovery

func TestService_PasswordResetFlow(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "old-password")
	f := newFixture(t, user)

	// Establish a session that the reset must revoke.
	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "old-password",
	})
	require.NoError(t, err)
	_ = session

	token, err := f.service.RequestPasswordReset(context.Background(), user.Email)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "new-password"))

	// Old credential dead, new credential live, sessions revoked, token consumed.
	_, err = f.service.Login(context.Background(), auth.LoginInput{Login: user.Email, Password: "old-password"})
	require.Error(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{Login: user.Email, Password: "new-password"})
	require.NoError(t, err)

	assert.Error(t, f.service.ResetPassword(context.Background(), token, "another"))
}

func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	token, err := f.service.RequestPasswordReset(context.Background(), "ghost@verdantia.test")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestService_ChangePassword(t *testing.T) {
	user := newTestUser(t, sec.RoleViewer, "old-password")
	f := newFixture(t, user)

	first, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "old-password",
	})
	require.NoError(t, err)

	second, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    user.Email,
		Password: "old-password",
	})
	require.NoError(t, err)

	t.Run("wrong_current_password", func(t *testing.T) {
		err := f.service.ChangePassword(context.Background(), user.ID, "wrong", "next", second.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, 401, apperr.As(err).HTTPStatus)
	})

	t.Run("revokes_other_sessions", func(t *testing.T) {
		err := f.service.ChangePassword(context.Background(), user.ID, "old-password", "new-password", second.RefreshToken)
		require.NoError(t, err)

		// The acting session survives; the first one is revoked.
		assert.Equal(t, 1, f.sessions.active(user.ID))
		_, err = f.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
		require.Error(t, err)
	})
}
