// Copyright (c) 2026 Verdantia. All rights reserved.

package event

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

// Service orchestrates the business logic for events. Authorization follows
// the shared content action catalogue; reads accept a nil actor for anonymous
// access.
type Service struct {
	eventRepo EventRepository
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(eventRepo EventRepository, logger *slog.Logger) *Service {
	return &Service{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func visibleTo(actor *authz.Identity, event *Event) bool {
	if event.IsVisible && event.Status == content.StatusPublished {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == event.OwnerID
}

// ListEvents retrieves a filtered page of events the actor may see. Public
// readers get visible, published events only; owners and admins see every
// lifecycle state.
func (service *Service) ListEvents(context context.Context, actor *authz.Identity, filter Filter, limit, offset int) ([]*Event, int, error) {
	privileged := actor != nil && (actor.IsAdmin() || (filter.OwnerID != "" && actor.ID == filter.OwnerID))
	filter.IncludeHidden = privileged
	filter.IncludeUnpublished = privileged

	return service.eventRepo.List(context, filter, limit, offset)
}

// GetEvent fetches a single event by UUID or slug. Events the actor may not
// see resolve to NotFound so their existence is not leaked.
func (service *Service) GetEvent(context context.Context, actor *authz.Identity, identifier string) (*Event, error) {
	var event *Event
	var err error

	if len(identifier) == 36 {
		event, err = service.eventRepo.FindByID(context, identifier)
	} else {
		event, err = service.eventRepo.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !visibleTo(actor, event) {
		return nil, apperr.NotFound("Event")
	}

	return event, nil
}

// CreateInput holds the organizer-provided fields for a new event.
type CreateInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
}

// CreateEvent initialises a new event in draft state. Requires at least the
// gardener role.
func (service *Service) CreateEvent(context context.Context, actor *authz.Identity, input CreateInput) (*Event, error) {

	if err := authz.Authorize(*actor, authz.ContentCreate, nil).Err(); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300)
	validator.Custom(FieldStartsAt, input.StartsAt.IsZero(), "A start time is required")
	validator.Custom(FieldEndsAt, input.EndsAt != nil && input.EndsAt.Before(input.StartsAt),
		"Cannot be before the start time")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuid.New(),
		OwnerID:     actor.ID,
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Status:      content.StatusDraft,
		IsVisible:   true,
	}

	if err := service.eventRepo.Create(context, event); err != nil {
		return nil, err
	}

	service.logger.Info("event_created",
		slog.String("event_id", event.ID),
		slog.String("owner_id", actor.ID),
	)

	return event, nil
}

// UpdateInput holds the mutable subset of event fields. Nil means unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// UpdateEvent applies a partial update to an event's content fields.
// Owner or admin.
func (service *Service) UpdateEvent(context context.Context, actor *authz.Identity, id string, input UpdateInput) (*Event, error) {

	event, err := service.eventRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentUpdate, authz.OwnedBy(event.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		validator := &validate.Validator{}
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 300)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		event.Title = *input.Title
		event.Slug = slug.From(*input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}

	if err := service.eventRepo.Update(context, event); err != nil {
		return nil, err
	}

	return event, nil
}

// ChangeStatus moves an event along the publication axis using the shared
// transition table. Same-state is a no-op; illegal steps are conflicts.
func (service *Service) ChangeStatus(context context.Context, actor *authz.Identity, id string, target content.Status) (*Event, error) {

	if !target.IsValid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Must be one of: draft, published, archived",
		})
	}

	event, err := service.eventRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentPublish, authz.OwnedBy(event.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if event.Status == target {
		return event, nil
	}

	if !event.Status.CanTransition(target) {
		return nil, content.TransitionError(event.Status, target)
	}

	if err := service.eventRepo.UpdateStatus(context, id, target); err != nil {
		return nil, err
	}

	service.logger.Info("event_status_changed",
		slog.String("event_id", id),
		slog.String("actor_id", actor.ID),
		slog.String("from", string(event.Status)),
		slog.String("to", string(target)),
	)

	event.Status = target
	if target == content.StatusPublished && event.PublishedAt == nil {
		now := time.Now()
		event.PublishedAt = &now
	}

	return event, nil
}

// SetVisibility toggles the reversible soft-delete flag. Owner or admin;
// idempotent.
func (service *Service) SetVisibility(context context.Context, actor *authz.Identity, id string, visible bool) (*Event, error) {

	event, err := service.eventRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentSoftDelete, authz.OwnedBy(event.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if event.IsVisible == visible {
		return event, nil
	}

	if err := service.eventRepo.SetVisible(context, id, visible); err != nil {
		return nil, err
	}

	event.IsVisible = visible
	return event, nil
}

// SetFeatured toggles the curated flag. Exact admin role; orthogonal to the
// lifecycle axes.
func (service *Service) SetFeatured(context context.Context, actor *authz.Identity, id string, featured bool) (*Event, error) {

	if err := authz.Authorize(*actor, authz.ContentFeature, nil).Err(); err != nil {
		return nil, err
	}

	event, err := service.eventRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if event.IsFeatured == featured {
		return event, nil
	}

	if err := service.eventRepo.SetFeatured(context, id, featured); err != nil {
		return nil, err
	}

	event.IsFeatured = featured
	return event, nil
}

// HardDelete permanently removes an event and its engagement records.
// Exact admin role; a missing event is a 404.
func (service *Service) HardDelete(context context.Context, actor *authz.Identity, id string) error {

	if err := authz.Authorize(*actor, authz.ContentHardDelete, nil).Err(); err != nil {
		return err
	}

	if _, err := service.eventRepo.FindByID(context, id); err != nil {
		return err
	}

	if err := service.eventRepo.HardDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("event_hard_deleted",
		slog.String("event_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}
