// Copyright (c) 2026 Verdantia. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantia/verdantia/internal/platform/middleware"
	requestutil "github.com/verdantia/verdantia/internal/platform/request"
	"github.com/verdantia/verdantia/internal/platform/respond"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/internal/users/auth"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// Handler implements the HTTP layer for account management and administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service profile
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	// Administration. RequireRole gives the fast-path rejection; the service
	// re-authorizes every call with the full rule list.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Get("/users", handler.listUsers)
		r.Patch("/users/{id}/role", handler.changeRole)
		r.Patch("/users/{id}/active", handler.setActive)
		r.Post("/users/{id}/ban", handler.ban)
		r.Post("/users/{id}/unban", handler.unban)
		r.Delete("/users/{id}", handler.deleteUser)
	})

	return router
}

// # Self-Service Endpoints

/*
GET /api/v1/account/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName     *string `json:"display_name"`
	Bio             *string `json:"bio"`
	ExperienceLevel *string `json:"experience_level"`
}

/*
PATCH /api/v1/account/me.

Description: Applies a partial update to the authenticated user's profile.

Request:
  - Body: updateMeRequest (only provided fields are changed)

Response:
  - 200: User: Updated profile
  - 400: ErrInvalidJSON: Malformed payload
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.ExperienceLevel != nil {
		v := &validate.Validator{}
		v.OneOf("experience_level", *input.ExperienceLevel,
			auth.ExperienceBeginner, auth.ExperienceIntermediate, auth.ExperienceExpert)
		if err := v.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), identity.ID, UpdateProfileInput{
		DisplayName:     input.DisplayName,
		Bio:             input.Bio,
		ExperienceLevel: input.ExperienceLevel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/v1/account/users.

Description: Lists accounts with optional role, status, and search filters.
Admin only.

Query:
  - role: viewer | gardener | admin
  - status: active | inactive | banned
  - q: username or email substring
  - page, limit: pagination

Response:
  - 200: []User with pagination metadata
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{
		Role:   sec.Role(request.URL.Query().Get(FieldRole)),
		Status: request.URL.Query().Get(FieldStatus),
		Search: request.URL.Query().Get("q"),
		Page:   pagination.FromRequest(request),
	}

	users, meta, err := handler.accountService.List(request.Context(), identity, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, *meta)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/account/users/{id}/role.

Description: Moves the target account to a different role. Changing to the
current role is a no-op success. Admins cannot change their own role.

Request:
  - Body: changeRoleRequest (Role)

Response:
  - 200: User: Target with updated role
  - 403: ErrForbidden: SELF_TARGET or INSUFFICIENT_ROLE
  - 404: ErrNotFound: Unknown target
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldRole, input.Role)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangeRole(
		request.Context(),
		identity,
		requestutil.ID(request, "id"),
		sec.Role(input.Role),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

/*
PATCH /api/v1/account/users/{id}/active.

Description: Toggles the reversible activation axis. Setting the current
state is a no-op success. Admins cannot deactivate themselves.

Request:
  - Body: setActiveRequest (Active)

Response:
  - 200: User: Target with updated state
  - 403: ErrForbidden: SELF_TARGET or INSUFFICIENT_ROLE
*/
func (handler *Handler) setActive(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setActiveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Active == nil {
		respond.Error(writer, request, validate.RequiredError(FieldActive, "is required"))
		return
	}

	user, err := handler.accountService.SetActive(
		request.Context(),
		identity,
		requestutil.ID(request, "id"),
		*input.Active,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type banRequest struct {
	Reason string `json:"reason"`
}

/*
POST /api/v1/account/users/{id}/ban.

Description: Bans the target with a mandatory reason. Banning an
already-banned account is a conflict. Admins cannot ban themselves.

Request:
  - Body: banRequest (Reason)

Response:
  - 200: User: Banned target
  - 409: ErrConflict: Already banned
*/
func (handler *Handler) ban(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input banRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.Ban(
		request.Context(),
		identity,
		requestutil.ID(request, "id"),
		input.Reason,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
POST /api/v1/account/users/{id}/unban.

Description: Lifts a ban. Unbanning an account that is not banned is a
no-op success.

Response:
  - 200: User: Target with ban cleared
*/
func (handler *Handler) unban(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Unban(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/account/users/{id}.

Description: Permanently removes the target account and everything it owns
in one transaction. Admins cannot delete themselves.

Response:
  - 204: No Content: Account purged
  - 404: ErrNotFound: Unknown target
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.PermanentlyDelete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
