// Copyright (c) 2026 Verdantia. All rights reserved.

package plant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/middleware"
	requestutil "github.com/verdantia/verdantia/internal/platform/request"
	"github.com/verdantia/verdantia/internal/platform/respond"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// Handler implements the HTTP layer for the plant catalogue.
type Handler struct {
	plantService *Service
}

// NewHandler constructs a new plant [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{plantService: service}
}

// Routes returns a [chi.Router] configured with the plant domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Put("/{id}/visibility", handler.setVisibility)
		r.Put("/{id}/featured", handler.setFeatured)
		r.Delete("/{id}", handler.hardDelete)
	})

	return router
}

/*
GET /api/v1/plants.

Description: Lists catalogue entries visible to the caller.

Query:
  - owner, q: filters
  - featured: "true" keeps curated entries only
  - page, limit: pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		OwnerID:      query.Get("owner"),
		FeaturedOnly: query.Get("featured") == "true",
		Query:        query.Get("q"),
	}

	plants, total, err := handler.plantService.ListPlants(
		request.Context(), identity, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, plants, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/plants/{identifier} — by UUID or slug; hidden entries the
// caller may not see resolve to 404.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())

	plant, err := handler.plantService.GetPlant(
		request.Context(), identity, requestutil.ID(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plant)
}

type createRequest struct {
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name"`
	Description    string `json:"description"`
	CareNotes      string `json:"care_notes"`
}

/*
POST /api/v1/plants.

Description: Adds a catalogue entry. Requires the gardener role.

Response:
  - 201: Plant: The created entry
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

	plant, err := handler.plantService.CreatePlant(request.Context(), identity, CreateInput{
		CommonName:     input.CommonName,
		ScientificName: input.ScientificName,
		Description:    input.Description,
		CareNotes:      input.CareNotes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, plant)
}

type updateRequest struct {
	CommonName     *string `json:"common_name"`
	ScientificName *string `json:"scientific_name"`
	Description    *string `json:"description"`
	CareNotes      *string `json:"care_notes"`
}

// PATCH /api/v1/plants/{id} — partial update of descriptive fields. Owner or
// admin.
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

	plant, err := handler.plantService.UpdatePlant(
		request.Context(), identity, requestutil.ID(request, "id"), UpdateInput{
			CommonName:     input.CommonName,
			ScientificName: input.ScientificName,
			Description:    input.Description,
			CareNotes:      input.CareNotes,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plant)
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

// PUT /api/v1/plants/{id}/visibility — reversible soft delete. Owner or admin.
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

	plant, err := handler.plantService.SetVisibility(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Visible)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plant)
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

// PUT /api/v1/plants/{id}/featured — curated flag. Exact admin role required.
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

	plant, err := handler.plantService.SetFeatured(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Featured)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plant)
}

// DELETE /api/v1/plants/{id} — irreversible; exact admin role required.
func (handler *Handler) hardDelete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.plantService.HardDelete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
