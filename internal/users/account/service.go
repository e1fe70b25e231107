// Copyright (c) 2026 Verdantia. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/constants"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/internal/users/auth"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// # Service Layer

// Service orchestrates the account lifecycle: profile management for the
// account's own user, and the administrative operations (role changes,
// activation, bans, permanent deletion) for admins.
//
// Every administrative method takes the acting identity explicitly and runs
// it through [authz.Authorize] before touching state. Lifecycle mutations are
// audit-logged with the actor, the target, and the outcome.
type Service struct {
	accountRepository AccountRepository
	sessionRevoker    SessionRevoker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, sessionRevoker SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRevoker:    sessionRevoker,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	DisplayName     *string
	Bio             *string
	ExperienceLevel *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Lifecycle fields are not
reachable from here.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.ExperienceLevel != nil {
		user.ExperienceLevel = *input.ExperienceLevel
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Administration

/*
List returns a paginated set of accounts for administrative review.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - filter: ListFilter

Returns:
  - []auth.User: Page of accounts
  - *pagination.Meta: Paging metadata
  - error: Authorization or retrieval failures
*/
func (service *Service) List(context context.Context, actor *authz.Identity, filter ListFilter) ([]auth.User, *pagination.Meta, error) {

	if err := authz.Authorize(*actor, authz.AccountList, nil).Err(); err != nil {
		return nil, nil, err
	}

	users, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_list_failed: %w", err)
	}

	meta := pagination.NewMeta(filter.Page.Page, filter.Page.Limit, total)
	return users, &meta, nil
}

/*
ChangeRole moves a target account to a different role.

Description: Admin-only, never self-targeted. Changing to the role the
account already holds is an idempotent success. The new role takes effect on
the target's very next request because identities are resolved fresh from
the store, so no session revocation is needed.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - targetID: string
  - newRole: sec.Role

Returns:
  - *auth.User: The target with its updated role
  - error: Authorization, validation, or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actor *authz.Identity, targetID string, newRole sec.Role) (*auth.User, error) {

	resource := authz.TargetAccount(targetID)
	if err := authz.Authorize(*actor, authz.AccountChangeRole, resource).Err(); err != nil {
		return nil, err
	}

	if !newRole.IsValid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be one of: viewer, gardener, admin",
		})
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	// Same-role change is a no-op, not an error.
	if target.Role == newRole {
		return target, nil
	}

	if err := service.accountRepository.UpdateRole(context, targetID, newRole); err != nil {
		return nil, fmt.Errorf("account_service_change_role_failed: %w", err)
	}

	service.logger.Info("account_role_changed",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
		slog.String("from", string(target.Role)),
		slog.String("to", string(newRole)),
	)

	target.Role = newRole
	return target, nil
}

/*
SetActive toggles the reversible activation axis of a target account.

Description: Admin-only, never self-targeted. Setting the state the account
is already in is an idempotent success. Deactivation revokes all live
sessions; reactivation restores the account exactly as it was, ban state
included.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - targetID: string
  - active: bool

Returns:
  - *auth.User: The target with its updated state
  - error: Authorization or storage failures
*/
func (service *Service) SetActive(context context.Context, actor *authz.Identity, targetID string, active bool) (*auth.User, error) {

	resource := authz.TargetAccount(targetID)
	if err := authz.Authorize(*actor, authz.AccountSetActive, resource).Err(); err != nil {
		return nil, err
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if target.IsActive == active {
		return target, nil
	}

	if err := service.accountRepository.SetActive(context, targetID, active); err != nil {
		return nil, fmt.Errorf("account_service_set_active_failed: %w", err)
	}

	if !active {
		_ = service.sessionRevoker.RevokeAll(context, targetID)
	}

	service.logger.Info("account_active_changed",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
		slog.Bool("active", active),
	)

	target.IsActive = active
	return target, nil
}

/*
Ban places an administrative sanction on a target account.

Description: Admin-only, never self-targeted, and the reason is mandatory.
Banning an already-banned account is a state conflict. The ban does not touch
the active flag; the two axes stay independent. All live sessions are
revoked so the ban is immediate.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - targetID: string
  - reason: string

Returns:
  - *auth.User: The banned target
  - error: Authorization, validation, conflict, or storage failures
*/
func (service *Service) Ban(context context.Context, actor *authz.Identity, targetID, reason string) (*auth.User, error) {

	resource := authz.TargetAccount(targetID)
	if err := authz.Authorize(*actor, authz.AccountBan, resource).Err(); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	validator := &validate.Validator{}
	validator.Required(FieldReason, reason).MaxLen(FieldReason, reason, constants.BanReasonMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if target.IsBanned {
		return nil, apperr.Conflict("User is already banned")
	}

	if err := service.accountRepository.SetBan(context, targetID, reason, actor.ID); err != nil {
		return nil, fmt.Errorf("account_service_ban_failed: %w", err)
	}

	_ = service.sessionRevoker.RevokeAll(context, targetID)

	service.logger.Warn("account_banned",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
		slog.String("reason", reason),
	)

	target.IsBanned = true
	target.BanReason = reason
	target.BannedBy = actor.ID
	return target, nil
}

/*
Unban lifts an administrative sanction from a target account.

Description: Admin-only. Unbanning an account that is not banned is an
idempotent success. The pre-ban state is restored exactly: if the account
was also deactivated, it stays deactivated.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - targetID: string

Returns:
  - *auth.User: The target with the ban cleared
  - error: Authorization or storage failures
*/
func (service *Service) Unban(context context.Context, actor *authz.Identity, targetID string) (*auth.User, error) {

	resource := authz.TargetAccount(targetID)
	if err := authz.Authorize(*actor, authz.AccountUnban, resource).Err(); err != nil {
		return nil, err
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if !target.IsBanned {
		return target, nil
	}

	if err := service.accountRepository.ClearBan(context, targetID); err != nil {
		return nil, fmt.Errorf("account_service_unban_failed: %w", err)
	}

	service.logger.Info("account_unbanned",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
	)

	target.IsBanned = false
	target.BanReason = ""
	target.BannedAt = nil
	target.BannedBy = ""
	return target, nil
}

/*
PermanentlyDelete irreversibly removes a target account and all its data.

Description: Admin-only, never self-targeted. The purge runs as a single
transaction covering the account's engagement records, engagement records
attached to its content, the content itself, sessions, and the account row.
A failing cascade rolls back completely.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - targetID: string

Returns:
  - error: Authorization, not-found, or cascade failures
*/
func (service *Service) PermanentlyDelete(context context.Context, actor *authz.Identity, targetID string) error {

	resource := authz.TargetAccount(targetID)
	if err := authz.Authorize(*actor, authz.AccountDelete, resource).Err(); err != nil {
		return err
	}

	// Deleting an account that does not exist is a 404, not a silent success.
	if _, err := service.accountRepository.FindByID(context, targetID); err != nil {
		return err
	}

	if err := service.accountRepository.PurgeAccount(context, targetID); err != nil {
		return fmt.Errorf("account_service_purge_failed: %w", err)
	}

	service.logger.Warn("account_permanently_deleted",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
	)

	return nil
}

// # Promotion Rule

/*
PromoteIfEligible upgrades a viewer to gardener when their approved
contribution count reaches the threshold.

Description: Implements the auth package's Promoter contract, evaluated once
per successful login. The rule is idempotent: a non-viewer or an account
below the threshold passes through untouched, and calling it twice for the
same account changes nothing the second time.

Parameters:
  - context: context.Context
  - user: *auth.User (mutated in place on promotion)

Returns:
  - bool: Whether a promotion happened
  - string: Human-readable reason shown to the user
  - error: Counting or update failures
*/
func (service *Service) PromoteIfEligible(context context.Context, user *auth.User) (bool, string, error) {

	if user.Role != sec.RoleViewer {
		return false, "", nil
	}

	count, err := service.accountRepository.CountApprovedContributions(context, user.ID)
	if err != nil {
		return false, "", fmt.Errorf("account_service_promotion_count_failed: %w", err)
	}

	if count < constants.PromotionThreshold {
		return false, "", nil
	}

	if err := service.accountRepository.UpdateRole(context, user.ID, sec.RoleGardener); err != nil {
		return false, "", fmt.Errorf("account_service_promotion_update_failed: %w", err)
	}

	service.logger.Info("account_promoted",
		slog.String("user_id", user.ID),
		slog.Int("approved_contributions", count),
	)

	user.Role = sec.RoleGardener
	reason := fmt.Sprintf("Promoted to gardener after %d approved contributions", count)
	return true, reason, nil
}
