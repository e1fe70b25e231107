// Copyright (c) 2026 Verdantia. All rights reserved.

package engage

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

// Handler implements the HTTP layer for engagement records.
type Handler struct {
	engageService *Service
}

// NewHandler constructs a new engagement [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{engageService: service}
}

// Routes returns a [chi.Router] configured with the engagement endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public reads, widened by identity when present.
	router.Get("/reviews", handler.listReviews)
	router.Get("/likes/{kind}/{targetID}", handler.likeSummary)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/reviews", handler.createReview)
		r.Delete("/reviews/{id}", handler.deleteReview)

		r.Get("/favorites", handler.listFavorites)
		r.Post("/favorites", handler.addFavorite)
		r.Delete("/favorites/{kind}/{targetID}", handler.removeFavorite)

		r.Post("/likes", handler.addLike)
		r.Delete("/likes/{kind}/{targetID}", handler.removeLike)
	})

	return router
}

// GET /api/v1/engage/reviews?kind=&target= — reviews for one content item.
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	reviews, total, err := handler.engageService.ListReviews(
		request.Context(), identity,
		TargetKind(query.Get("kind")), query.Get("target"),
		params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

type reviewRequest struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Rating     int    `json:"rating"`
	Body       string `json:"body"`
}

/*
POST /api/v1/engage/reviews.

Description: Posts a review on a content item the caller can see. One review
per user per target; a second attempt is a 409.
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.engageService.CreateReview(request.Context(), identity, ReviewInput{
		TargetKind: TargetKind(input.TargetKind),
		TargetID:   input.TargetID,
		Rating:     input.Rating,
		Body:       input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// DELETE /api/v1/engage/reviews/{id} — author or admin.
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.engageService.DeleteReview(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// GET /api/v1/engage/favorites — the caller's own bookmarks.
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	favorites, total, err := handler.engageService.ListFavorites(
		request.Context(), identity, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, favorites, pagination.NewMeta(params.Page, params.Limit, total))
}

type targetRequest struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
}

// POST /api/v1/engage/favorites — bookmark a content item; duplicates are 409.
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input targetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	favorite, err := handler.engageService.AddFavorite(
		request.Context(), identity, TargetKind(input.TargetKind), input.TargetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, favorite)
}

// DELETE /api/v1/engage/favorites/{kind}/{targetID} — idempotent.
func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.engageService.RemoveFavorite(
		request.Context(), identity,
		TargetKind(chi.URLParam(request, "kind")), requestutil.ID(request, "targetID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/engage/likes — like a content item; duplicates are 409.
func (handler *Handler) addLike(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input targetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.engageService.AddLike(
		request.Context(), identity, TargetKind(input.TargetKind), input.TargetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]bool{"liked": true})
}

// DELETE /api/v1/engage/likes/{kind}/{targetID} — idempotent.
func (handler *Handler) removeLike(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.engageService.RemoveLike(
		request.Context(), identity,
		TargetKind(chi.URLParam(request, "kind")), requestutil.ID(request, "targetID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// GET /api/v1/engage/likes/{kind}/{targetID} — count plus the caller's state.
func (handler *Handler) likeSummary(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())

	summary, err := handler.engageService.LikeSummary(
		request.Context(), identity,
		TargetKind(chi.URLParam(request, "kind")), requestutil.ID(request, "targetID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}
