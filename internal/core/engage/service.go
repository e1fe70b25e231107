// Copyright (c) 2026 Verdantia. All rights reserved.

package engage

import (
	"context"
	"log/slog"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// TargetResolver verifies that a content item exists and is readable by the
// actor. Unreadable and missing targets both surface as NotFound, so
// engagement cannot be used to probe hidden content.
type TargetResolver interface {
	Resolve(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) error
}

// Service orchestrates the business logic for engagement records.
type Service struct {
	reviewRepo   ReviewRepository
	favoriteRepo FavoriteRepository
	likeRepo     LikeRepository
	targets      TargetResolver
	logger       *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	reviewRepo ReviewRepository,
	favoriteRepo FavoriteRepository,
	likeRepo LikeRepository,
	targets TargetResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		reviewRepo:   reviewRepo,
		favoriteRepo: favoriteRepo,
		likeRepo:     likeRepo,
		targets:      targets,
		logger:       logger,
	}
}

// validateTarget runs kind validation and target resolution shared by every
// create path.
func (service *Service) validateTarget(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) error {
	validator := &validate.Validator{}
	validator.Custom(FieldTargetKind, !kind.IsValid(), "Must be one of: plant, article, event")
	validator.Required(FieldTargetID, targetID)
	if err := validator.Err(); err != nil {
		return err
	}

	return service.targets.Resolve(context, actor, kind, targetID)
}

// # Reviews

// ReviewInput holds the fields for a new review.
type ReviewInput struct {
	TargetKind TargetKind
	TargetID   string
	Rating     int
	Body       string
}

// CreateReview posts a review on a readable content item. Any authenticated
// user may review; a second review for the same target is a conflict.
func (service *Service) CreateReview(context context.Context, actor *authz.Identity, input ReviewInput) (*Review, error) {
	if err := authz.Authorize(*actor, authz.EngageCreate, nil).Err(); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Range(FieldRating, input.Rating, RatingMin, RatingMax)
	validator.MaxLen(FieldBody, input.Body, ReviewBodyMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.validateTarget(context, actor, input.TargetKind, input.TargetID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:         uuid.New(),
		UserID:     actor.ID,
		TargetKind: input.TargetKind,
		TargetID:   input.TargetID,
		Rating:     input.Rating,
		Body:       input.Body,
	}

	if err := service.reviewRepo.Create(context, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListReviews returns a page of reviews for one content item. The target
// must be readable by the actor.
func (service *Service) ListReviews(context context.Context, actor *authz.Identity, kind TargetKind, targetID string, limit, offset int) ([]*Review, int, error) {
	if err := service.validateTarget(context, actor, kind, targetID); err != nil {
		return nil, 0, err
	}

	return service.reviewRepo.ListForTarget(context, kind, targetID, limit, offset)
}

// DeleteReview removes a review. The author may delete their own; admins may
// delete any.
func (service *Service) DeleteReview(context context.Context, actor *authz.Identity, id string) error {
	review, err := service.reviewRepo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := authz.Authorize(*actor, authz.EngageDelete, authz.OwnedBy(review.UserID)).Err(); err != nil {
		return err
	}

	if err := service.reviewRepo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("review_deleted",
		slog.String("review_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

// # Favorites

// AddFavorite bookmarks a readable content item. Favoriting the same target
// twice is a conflict.
func (service *Service) AddFavorite(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) (*Favorite, error) {
	if err := authz.Authorize(*actor, authz.EngageCreate, nil).Err(); err != nil {
		return nil, err
	}

	if err := service.validateTarget(context, actor, kind, targetID); err != nil {
		return nil, err
	}

	favorite := &Favorite{
		ID:         uuid.New(),
		UserID:     actor.ID,
		TargetKind: kind,
		TargetID:   targetID,
	}

	if err := service.favoriteRepo.Create(context, favorite); err != nil {
		return nil, err
	}

	return favorite, nil
}

// RemoveFavorite drops the actor's bookmark for a target. Removing a
// favorite that does not exist is an idempotent success.
func (service *Service) RemoveFavorite(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) error {
	return service.favoriteRepo.Delete(context, actor.ID, kind, targetID)
}

// ListFavorites returns a page of the actor's own bookmarks.
func (service *Service) ListFavorites(context context.Context, actor *authz.Identity, limit, offset int) ([]*Favorite, int, error) {
	return service.favoriteRepo.ListForUser(context, actor.ID, limit, offset)
}

// # Likes

// AddLike records the actor's like on a readable content item. Liking the
// same target twice is a conflict.
func (service *Service) AddLike(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) error {
	if err := authz.Authorize(*actor, authz.EngageCreate, nil).Err(); err != nil {
		return err
	}

	if err := service.validateTarget(context, actor, kind, targetID); err != nil {
		return err
	}

	like := &Like{
		ID:         uuid.New(),
		UserID:     actor.ID,
		TargetKind: kind,
		TargetID:   targetID,
	}

	return service.likeRepo.Create(context, like)
}

// RemoveLike drops the actor's like. Idempotent.
func (service *Service) RemoveLike(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) error {
	return service.likeRepo.Delete(context, actor.ID, kind, targetID)
}

// LikeSummary returns the like count for a target plus the actor's own
// state. Anonymous callers get liked_by_me = false.
func (service *Service) LikeSummary(context context.Context, actor *authz.Identity, kind TargetKind, targetID string) (*LikeSummary, error) {
	if err := service.validateTarget(context, actor, kind, targetID); err != nil {
		return nil, err
	}

	userID := ""
	if actor != nil {
		userID = actor.ID
	}

	return service.likeRepo.Summary(context, kind, targetID, userID)
}
