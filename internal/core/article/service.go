// Copyright (c) 2026 Verdantia. All rights reserved.

package article

import (
	"context"
	"log/slog"
	"time"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/slug"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for articles.
//
// # Authorization
//
// Every mutating method takes the acting identity explicitly and runs it
// through [authz.Authorize] against the shared content action catalogue.
// Read methods accept a nil actor for anonymous access and filter what the
// actor may see instead of denying.
type Service struct {
	articleRepo ArticleRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(articleRepo ArticleRepository, logger *slog.Logger) *Service {
	return &Service{
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// canSeeUnfiltered reports whether the actor may see hidden and unpublished
// items: admins everywhere, owners for their own listings.
func canSeeUnfiltered(actor *authz.Identity, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || (ownerID != "" && actor.ID == ownerID)
}

// visibleTo reports whether a single article may be read by the actor.
// Public readers see only visible, published items.
func visibleTo(actor *authz.Identity, article *Article) bool {
	if article.IsVisible && article.Status == content.StatusPublished {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == article.OwnerID
}

// # Read Operations

/*
ListArticles retrieves a filtered page of articles the actor may see.

Description: Anonymous and ordinary readers get visible, published articles
only. An owner listing their own articles, or an admin, sees every lifecycle
state.

Parameters:
  - context: context.Context
  - actor: *authz.Identity (nil for anonymous)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Article: Page of matching articles
  - int: Total matching count
  - error: Storage failures
*/
func (service *Service) ListArticles(context context.Context, actor *authz.Identity, filter Filter, limit, offset int) ([]*Article, int, error) {

	if canSeeUnfiltered(actor, filter.OwnerID) {
		filter.IncludeHidden = true
		filter.IncludeUnpublished = true
	} else {
		filter.IncludeHidden = false
		filter.IncludeUnpublished = false
	}

	return service.articleRepo.List(context, filter, limit, offset)
}

/*
GetArticle fetches a single article by UUID or SEO slug.

Description: Lookup strategy is detected from the identifier format. Items
the actor may not see resolve to NotFound rather than Forbidden so their
existence is not leaked.

Parameters:
  - context: context.Context
  - actor: *authz.Identity (nil for anonymous)
  - identifier: string (UUID or slug)

Returns:
  - *Article: The hydrated entity
  - error: apperr.NotFound if missing or not readable by the actor
*/
func (service *Service) GetArticle(context context.Context, actor *authz.Identity, identifier string) (*Article, error) {

	var article *Article
	var err error

	if isUUID(identifier) {
		article, err = service.articleRepo.FindByID(context, identifier)
	} else {
		article, err = service.articleRepo.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !visibleTo(actor, article) {
		return nil, apperr.NotFound("Article")
	}

	return article, nil
}

// # Authoring

// CreateInput holds the author-provided fields for a new article.
type CreateInput struct {
	Title   string
	Summary string
	Body    string
	Tags    []string
}

/*
CreateArticle initialises a new article in draft state.

Description: Requires at least the gardener role. Generates the UUID and the
SEO slug, and starts the article as a visible draft.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - input: CreateInput

Returns:
  - *Article: The created draft
  - error: Authorization, validation, or persistence errors
*/
func (service *Service) CreateArticle(context context.Context, actor *authz.Identity, input CreateInput) (*Article, error) {

	if err := authz.Authorize(*actor, authz.ContentCreate, nil).Err(); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300)
	validator.Required(FieldBody, input.Body)
	validator.MaxLen(FieldSummary, input.Summary, 1000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	article := &Article{
		ID:        uuid.New(),
		OwnerID:   actor.ID,
		Title:     input.Title,
		Slug:      slug.From(input.Title),
		Summary:   input.Summary,
		Body:      input.Body,
		Tags:      input.Tags,
		Status:    content.StatusDraft,
		IsVisible: true,
	}

	if err := service.articleRepo.Create(context, article); err != nil {
		return nil, err
	}

	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("owner_id", actor.ID),
	)

	return article, nil
}

// UpdateInput holds the mutable subset of article fields. Nil means unchanged.
type UpdateInput struct {
	Title   *string
	Summary *string
	Body    *string
	Tags    []string
}

/*
UpdateArticle applies a partial update to an article's content fields.

Description: Owner or admin. The slug is regenerated when the title changes.
Lifecycle axes are untouchable from here.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - input: UpdateInput

Returns:
  - *Article: The updated entity
  - error: Authorization, validation, or persistence errors
*/
func (service *Service) UpdateArticle(context context.Context, actor *authz.Identity, id string, input UpdateInput) (*Article, error) {

	article, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentUpdate, authz.OwnedBy(article.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		validator := &validate.Validator{}
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 300)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		article.Title = *input.Title
		article.Slug = slug.From(*input.Title)
	}
	if input.Summary != nil {
		article.Summary = *input.Summary
	}
	if input.Body != nil {
		article.Body = *input.Body
	}
	if input.Tags != nil {
		article.Tags = input.Tags
	}

	if err := service.articleRepo.Update(context, article); err != nil {
		return nil, err
	}

	return article, nil
}

// # Lifecycle

/*
ChangeStatus moves an article along the publication axis.

Description: Owner or admin. Transitions follow the shared state table:
draft <-> published <-> archived, with draft <-> archived rejected in both
directions. Setting the current status is an idempotent success.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - target: content.Status

Returns:
  - *Article: The article in its new state
  - error: Authorization, conflict, or persistence errors
*/
func (service *Service) ChangeStatus(context context.Context, actor *authz.Identity, id string, target content.Status) (*Article, error) {

	if !target.IsValid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Must be one of: draft, published, archived",
		})
	}

	article, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentPublish, authz.OwnedBy(article.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if article.Status == target {
		return article, nil
	}

	if !article.Status.CanTransition(target) {
		return nil, content.TransitionError(article.Status, target)
	}

	if err := service.articleRepo.UpdateStatus(context, id, target); err != nil {
		return nil, err
	}

	service.logger.Info("article_status_changed",
		slog.String("article_id", id),
		slog.String("actor_id", actor.ID),
		slog.String("from", string(article.Status)),
		slog.String("to", string(target)),
	)

	article.Status = target
	if target == content.StatusPublished && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}

	return article, nil
}

/*
SetVisibility toggles the reversible soft-delete flag.

Description: Owner or admin. Hiding does not touch the publication status;
restoring brings back exactly the state the article had when hidden.
Setting the current state is an idempotent success.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - visible: bool

Returns:
  - *Article: The article with its updated flag
  - error: Authorization or persistence errors
*/
func (service *Service) SetVisibility(context context.Context, actor *authz.Identity, id string, visible bool) (*Article, error) {

	article, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentSoftDelete, authz.OwnedBy(article.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if article.IsVisible == visible {
		return article, nil
	}

	if err := service.articleRepo.SetVisible(context, id, visible); err != nil {
		return nil, err
	}

	article.IsVisible = visible
	return article, nil
}

/*
SetFeatured toggles the admin-curated featured flag.

Description: Exact admin role required; ownership is irrelevant. The flag is
orthogonal to both lifecycle axes and survives hide/unhide and publication
transitions untouched.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - featured: bool

Returns:
  - *Article: The article with its updated flag
  - error: Authorization or persistence errors
*/
func (service *Service) SetFeatured(context context.Context, actor *authz.Identity, id string, featured bool) (*Article, error) {

	if err := authz.Authorize(*actor, authz.ContentFeature, nil).Err(); err != nil {
		return nil, err
	}

	article, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if article.IsFeatured == featured {
		return article, nil
	}

	if err := service.articleRepo.SetFeatured(context, id, featured); err != nil {
		return nil, err
	}

	service.logger.Info("article_featured_changed",
		slog.String("article_id", id),
		slog.String("actor_id", actor.ID),
		slog.Bool("featured", featured),
	)

	article.IsFeatured = featured
	return article, nil
}

/*
HardDelete permanently removes an article and its engagement records.

Description: Exact admin role required. The cascade runs in one transaction;
deleting an article that does not exist is a 404.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string

Returns:
  - error: Authorization, not-found, or cascade failures
*/
func (service *Service) HardDelete(context context.Context, actor *authz.Identity, id string) error {

	if err := authz.Authorize(*actor, authz.ContentHardDelete, nil).Err(); err != nil {
		return err
	}

	if _, err := service.articleRepo.FindByID(context, id); err != nil {
		return err
	}

	if err := service.articleRepo.HardDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("article_hard_deleted",
		slog.String("article_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

// # Internal Helpers

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
