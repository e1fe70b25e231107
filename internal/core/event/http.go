// Copyright (c) 2026 Verdantia. All rights reserved.

package event

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/middleware"
	requestutil "github.com/verdantia/verdantia/internal/platform/request"
	"github.com/verdantia/verdantia/internal/platform/respond"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/pagination"
)

// Handler implements the HTTP layer for the event domain.
type Handler struct {
	eventService *Service
}

// NewHandler constructs a new event [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{eventService: service}
}

// Routes returns a [chi.Router] configured with the event domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

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

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Status:       content.Status(query.Get(FieldStatus)),
		OwnerID:      query.Get("owner"),
		FeaturedOnly: query.Get("featured") == "true",
		UpcomingOnly: query.Get("upcoming") == "true",
		Query:        query.Get("q"),
	}

	events, total, err := handler.eventService.ListEvents(
		request.Context(), identity, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, events, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())

	event, err := handler.eventService.GetEvent(
		request.Context(), identity, requestutil.ID(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

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

	event, err := handler.eventService.CreateEvent(request.Context(), identity, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, event)
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

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

	event, err := handler.eventService.UpdateEvent(
		request.Context(), identity, requestutil.ID(request, "id"), UpdateInput{
			Title:       input.Title,
			Description: input.Description,
			Location:    input.Location,
			StartsAt:    input.StartsAt,
			EndsAt:      input.EndsAt,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

type statusRequest struct {
	Status string `json:"status"`
}

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

	event, err := handler.eventService.ChangeStatus(
		request.Context(), identity, requestutil.ID(request, "id"), content.Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

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

	event, err := handler.eventService.SetVisibility(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Visible)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

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

	event, err := handler.eventService.SetFeatured(
		request.Context(), identity, requestutil.ID(request, "id"), *input.Featured)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

func (handler *Handler) hardDelete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.eventService.HardDelete(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
