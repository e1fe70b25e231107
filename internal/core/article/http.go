// Copyright (c) 2026 Verdantia. All rights reserved.

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/middleware"
	requestutil "github.com/verdantia/verdantia/internal/platform/request"
	"github.com/verdantia/verdantia/internal/platform/respond"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// Handler implements the HTTP layer for the article domain.
type Handler struct {
	articleService *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{articleService: service}
}

// Routes returns a [chi.Router] configured with the article domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public discovery. The identity, when present, widens what is returned.
	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

	// Authoring and lifecycle
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Put("/{id}/status", handler.changeStatus)
		r.Put("/{id}/visibility", handler.setVisibility)
		r.Put("/{id}/featured", handler.setFeatured)
		r.Delete("/{id}", handler.hardDelete)
	})

	return router
}

/*
GET /api/v1/articles.

Description: Lists articles visible to the caller with optional filters.

Query:
  - status, owner, tag, q: filters
  - featured: "true" keeps curated articles only
  - page, limit: pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Status:       content.Status(query.Get(FieldStatus)),
		OwnerID:      query.Get("owner"),
		FeaturedOnly: query.Get("featured") == "true",
		Tag:          query.Get(FieldTag),
		Query:        query.Get("q"),
	}

	articles, total, err := handler.articleService.ListArticles(
		request.Context(), identity, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/articles/{identifier}.

Description: Fetches one article by UUID or slug. Articles the caller may
not see resolve to 404.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())

	article, err := handler.articleService.GetArticle(
		request.Context(), identity, requestutil.ID(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

type createRequest struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags"`
}

/*
POST /api/v1/articles.

Description: Creates a draft article. Requires the gardener role.

Response:
  - 201: Article: The created draft
  - 403: ErrForbidden: INSUFFICIENT_ROLE
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	article, err := handler.articleService.CreateArticle(request.Context(), identity, CreateInput{
		Title:   input.Title,
		Summary: input.Summary,
		Body:    input.Body,
		Tags:    input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

type updateRequest struct {
	Title   *string  `json:"title"`
	Summary *string  `json:"summary"`
	Body    *string  `json:"body"`
	Tags    []string `json:"tags"`
}

/*
PATCH /api/v1/articles/{id}.

Description: Partially updates content fields. Owner or admin.
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	article, err := handler.articleService.UpdateArticle(
		request.Context(), identity, requestutil.ID(request, "id"), UpdateInput{
			Title:   input.Title,
			Summary: input.Summary,
			Body:    input.Body,
			Tags:    input.Tags,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

type statusRequest struct {
	Status string `json:"status"`
}

/*
PUT /api/v1/articles/{id}/status.

Description: Moves the publication axis. Owner or admin. Illegal transitions
are conflicts; repeating the current status is a no-op.
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	article, err := handler.articleService.ChangeStatus(
		request.Context(), identity, requestutil.ID(request, "id"), content.Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

/*
PUT /api/v1/articles/{id}/visibility.

Description: Toggles the reversible soft-delete flag. Owner or admin.
*/
func (handler *Handler) setVisibility(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input visibilityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Visible == nil {
		respond.Error(writer, request, validate.RequiredError(FieldVisible, "is required"))
		return
	}

	article, err := handler.articleService.SetVisibility(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Visible)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

/*
PUT /api/v1/articles/{id}/featured.

Description: Toggles the curated flag. Exact admin role required.
*/
func (handler *Handler) setFeatured(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input featuredRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Featured == nil {
		respond.Error(writer, request, validate.RequiredError("featured", "is required"))
		return
	}

	article, err := handler.articleService.SetFeatured(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Featured)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
DELETE /api/v1/articles/{id}.

Description: Irreversibly removes the article and its engagement records.
Exact admin role required.

Response:
  - 204: No Content
*/
func (handler *Handler) hardDelete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.articleService.HardDelete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
