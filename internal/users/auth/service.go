// Copyright (c) 2026 Verdantia. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)

	// VerifyToken checks the signature and validity of a JWT string.
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Promoter is the narrow policy evaluated once per successful login.
//
// It may upgrade a viewer to gardener based on accumulated trusted
// contributions; the implementation lives in the account package so all role
// mutations funnel through the account lifecycle manager.
type Promoter interface {
	PromoteIfEligible(context context.Context, user *User) (wasPromoted bool, reason string, err error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// resolution, or login logic must be reviewed carefully.
type Service struct {
	userRepository       UserRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	promoter             Promoter
}

// NewService constructs a new [Service] with necessary dependencies.
// promoter may be nil, in which case login never promotes.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	promoter Promoter,
) *Service {
	return &Service{
		userRepository:       userRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		promoter:             promoter,
	}
}

// # Identity Resolution

/*
ResolveIdentity validates a presented credential and resolves it to a fresh
identity snapshot.

Description: The checks run in a strict order. The ban check short-circuits
before any role logic, and both ban and deactivation are evaluated against
the store rather than the token, so they take effect immediately.

Parameters:
  - context: context.Context
  - token: string (opaque bearer credential)

Returns:
  - *authz.Identity: Snapshot valid for the duration of one request
  - err: INVALID_CREDENTIAL, IDENTITY_NOT_FOUND, BANNED (with reason), or INACTIVE
*/
func (service *Service) ResolveIdentity(context context.Context, token string) (*authz.Identity, error) {

	// Signature, structure, and expiry. Anything wrong with the token itself
	// is an authentication failure, never retried by the core.
	claims, err := service.tokenProvider.VerifyToken(token)
	if err != nil {
		return nil, apperr.UnauthorizedCode("INVALID_CREDENTIAL", "Invalid or expired credential")
	}

	// The token may outlive the account (e.g. deleted after issuance).
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.UnauthorizedCode("IDENTITY_NOT_FOUND", "Account no longer exists")
	}

	// Ban dominates everything, including whatever role the token claims.
	if user.IsBanned {
		return nil, apperr.ForbiddenCode(string(authz.ReasonBanned), "Account is banned: "+user.BanReason)
	}

	if !user.IsActive {
		return nil, apperr.ForbiddenCode(string(authz.ReasonInactive), "Account is deactivated")
	}

	identity := user.Identity()
	return &identity, nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	DisplayName     string
	Role            sec.Role // viewer or gardener; admin is never self-assignable
	ExperienceLevel string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
the initial role. The requested role is clamped: admin can never be chosen
at registration, and an empty role defaults to viewer.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Role selection at registration: viewer by default, gardener on request,
	// admin never.
	role := input.Role
	if role == "" {
		role = sec.RoleViewer
	}
	if role != sec.RoleViewer && role != sec.RoleGardener {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be one of: viewer, gardener",
		})
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:              uuid.New(),
		Username:        input.Username,
		Email:           input.Email,
		PasswordHash:    hashedPassword,
		DisplayName:     input.DisplayName,
		ExperienceLevel: input.ExperienceLevel,
		Role:            role,
		IsActive:        true,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string // Can be Username or Email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User

	// WasPromoted reports a login-time viewer -> gardener promotion,
	// with a human-readable reason for the UI.
	WasPromoted     bool
	PromotionReason string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
rejects banned and deactivated accounts with their specific reasons, then
evaluates the promotion rule before minting tokens so the issued credential
already carries the upgraded role.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized, Forbidden (banned/inactive), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	var user *User
	var err error
	// Flexible login: look up by Email or Username
	user, err = service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-time hash comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Lifecycle gates. Checked after credential verification so the response
	// can carry the specific reason without enabling account enumeration.
	if user.IsBanned {
		return nil, apperr.ForbiddenCode(string(authz.ReasonBanned), "Account is banned: "+user.BanReason)
	}
	if !user.IsActive {
		return nil, apperr.ForbiddenCode(string(authz.ReasonInactive), "Account is deactivated")
	}

	// Promotion rule: evaluated once per successful login, viewers only.
	// A failure here must not block login.
	wasPromoted := false
	promotionReason := ""
	if service.promoter != nil && user.Role == sec.RoleViewer {
		wasPromoted, promotionReason, err = service.promoter.PromoteIfEligible(context, user)
		if err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "login_promotion_check_failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
			wasPromoted, promotionReason = false, ""
		}
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
		WasPromoted:           wasPromoted,
		PromotionReason:       promotionReason,
	}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a tracked refresh token can never be used again.
Logout of an unknown or already-revoked token is considered successful
(idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	tokenHash := sec.HashToken(refreshToken)

	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. The
account's lifecycle gates are re-checked so a ban or deactivation invalidates
outstanding refresh tokens at their next use.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized, Forbidden, or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.UnauthorizedCode("IDENTITY_NOT_FOUND", "Account no longer exists")
	}

	if user.IsBanned {
		return nil, apperr.ForbiddenCode(string(authz.ReasonBanned), "Account is banned: "+user.BanReason)
	}
	if !user.IsActive {
		return nil, apperr.ForbiddenCode(string(authz.ReasonInactive), "Account is deactivated")
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	// Generate a fresh Refresh Token for the rotation
	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	// Persist the new session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	newSession := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.
We don't report whether the email exists to prevent user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (empty if the email is unknown)
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: Revoke EVERY active session for this user
	_ = service.sessionRepository.RevokeAll(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password and then revokes all OTHER refresh
sessions to force re-login on other devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all other sessions to force re-login on other devices
	tokenHash := sec.HashToken(currentRefreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	return nil
}
