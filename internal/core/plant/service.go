// Copyright (c) 2026 Verdantia. All rights reserved.

package plant

import (
	"context"
	"log/slog"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/validate"
	"github.com/verdantia/verdantia/pkg/slug"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for the plant catalogue. Plants
// have no publication axis, so the lifecycle surface here is visibility and
// the featured flag only.
type Service struct {
	plantRepo PlantRepository
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(plantRepo PlantRepository, logger *slog.Logger) *Service {
	return &Service{
		plantRepo: plantRepo,
		logger:    logger,
	}
}

// visibleTo reports whether a single plant may be read by the actor. Hidden
// entries are readable by their owner and admins only.
func visibleTo(actor *authz.Identity, plant *Plant) bool {
	if plant.IsVisible {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == plant.OwnerID
}

// # Read Operations

/*
ListPlants retrieves a filtered page of catalogue entries the actor may see.

Description: Anonymous and ordinary readers get visible plants only. An owner
listing their own entries, or an admin, also sees hidden ones.

Parameters:
  - context: context.Context
  - actor: *authz.Identity (nil for anonymous)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Plant: Page of matching plants
  - int: Total matching count
  - error: Storage failures
*/
func (service *Service) ListPlants(context context.Context, actor *authz.Identity, filter Filter, limit, offset int) ([]*Plant, int, error) {
	filter.IncludeHidden = actor != nil &&
		(actor.IsAdmin() || (filter.OwnerID != "" && actor.ID == filter.OwnerID))

	return service.plantRepo.List(context, filter, limit, offset)
}

/*
GetPlant fetches a single catalogue entry by UUID or slug.

Description: Entries the actor may not see resolve to NotFound rather than
Forbidden so their existence is not leaked.

Parameters:
  - context: context.Context
  - actor: *authz.Identity (nil for anonymous)
  - identifier: string (UUID or slug)

Returns:
  - *Plant: The hydrated entity
  - error: apperr.NotFound if missing or not readable by the actor
*/
func (service *Service) GetPlant(context context.Context, actor *authz.Identity, identifier string) (*Plant, error) {

	var plant *Plant
	var err error

	if len(identifier) == 36 {
		plant, err = service.plantRepo.FindByID(context, identifier)
	} else {
		plant, err = service.plantRepo.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !visibleTo(actor, plant) {
		return nil, apperr.NotFound("Plant")
	}

	return plant, nil
}

// # Authoring

// CreateInput holds the contributor-provided fields for a new plant.
type CreateInput struct {
	CommonName     string
	ScientificName string
	Description    string
	CareNotes      string
}

/*
CreatePlant adds a new visible entry to the catalogue.

Description: Requires at least the gardener role. Generates the UUID and the
SEO slug from the common name.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - input: CreateInput

Returns:
  - *Plant: The created entry
  - error: Authorization, validation, or persistence errors
*/
func (service *Service) CreatePlant(context context.Context, actor *authz.Identity, input CreateInput) (*Plant, error) {

	if err := authz.Authorize(*actor, authz.ContentCreate, nil).Err(); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldCommonName, input.CommonName).MaxLen(FieldCommonName, input.CommonName, 200)
	validator.MaxLen(FieldScientificName, input.ScientificName, 200)
	validator.MaxLen(FieldDescription, input.Description, 5000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	plant := &Plant{
		ID:             uuid.New(),
		OwnerID:        actor.ID,
		CommonName:     input.CommonName,
		ScientificName: input.ScientificName,
		Slug:           slug.From(input.CommonName),
		Description:    input.Description,
		CareNotes:      input.CareNotes,
		IsVisible:      true,
	}

	if err := service.plantRepo.Create(context, plant); err != nil {
		return nil, err
	}

	service.logger.Info("plant_created",
		slog.String("plant_id", plant.ID),
		slog.String("owner_id", actor.ID),
	)

	return plant, nil
}

// UpdateInput holds the mutable subset of plant fields. Nil means unchanged.
type UpdateInput struct {
	CommonName     *string
	ScientificName *string
	Description    *string
	CareNotes      *string
}

/*
UpdatePlant applies a partial update to a plant's descriptive fields.

Description: Owner or admin. The slug is regenerated when the common name
changes. The visibility and featured flags are untouchable from here.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - input: UpdateInput

Returns:
  - *Plant: The updated entity
  - error: Authorization, validation, or persistence errors
*/
func (service *Service) UpdatePlant(context context.Context, actor *authz.Identity, id string, input UpdateInput) (*Plant, error) {

	plant, err := service.plantRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentUpdate, authz.OwnedBy(plant.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if input.CommonName != nil {
		validator := &validate.Validator{}
		validator.Required(FieldCommonName, *input.CommonName).MaxLen(FieldCommonName, *input.CommonName, 200)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		plant.CommonName = *input.CommonName
		plant.Slug = slug.From(*input.CommonName)
	}
	if input.ScientificName != nil {
		plant.ScientificName = *input.ScientificName
	}
	if input.Description != nil {
		plant.Description = *input.Description
	}
	if input.CareNotes != nil {
		plant.CareNotes = *input.CareNotes
	}

	if err := service.plantRepo.Update(context, plant); err != nil {
		return nil, err
	}

	return plant, nil
}

// # Lifecycle

/*
SetVisibility toggles the reversible soft-delete flag.

Description: Owner or admin. Restoring brings the entry back exactly as it
was hidden. Setting the current state is an idempotent success.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - visible: bool

Returns:
  - *Plant: The plant with its updated flag
  - error: Authorization or persistence errors
*/
func (service *Service) SetVisibility(context context.Context, actor *authz.Identity, id string, visible bool) (*Plant, error) {

	plant, err := service.plantRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(*actor, authz.ContentSoftDelete, authz.OwnedBy(plant.OwnerID)).Err(); err != nil {
		return nil, err
	}

	if plant.IsVisible == visible {
		return plant, nil
	}

	if err := service.plantRepo.SetVisible(context, id, visible); err != nil {
		return nil, err
	}

	plant.IsVisible = visible
	return plant, nil
}

/*
SetFeatured toggles the admin-curated featured flag.

Description: Exact admin role required; ownership is irrelevant. The flag is
independent of visibility and survives hide/unhide untouched.

Parameters:
  - context: context.Context
  - actor: *authz.Identity
  - id: string
  - featured: bool

Returns:
  - *Plant: The plant with its updated flag
  - error: Authorization or persistence errors
*/
func (service *Service) SetFeatured(context context.Context, actor *authz.Identity, id string, featured bool) (*Plant, error) {

	if err := authz.Authorize(*actor, authz.ContentFeature, nil).Err(); err != nil {
		return nil, err
	}

	plant, err := service.plantRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if plant.IsFeatured == featured {
		return plant, nil
	}

	if err := service.plantRepo.SetFeatured(context, id, featured); err != nil {
		return nil, err
	}

	service.logger.Info("plant_featured_changed",
		slog.String("plant_id", id),
		slog.String("actor_id", actor.ID),
		slog.Bool("featured", featured),
	)

	plant.IsFeatured = featured
	return plant, nil
}

/*
HardDelete permanently removes a plant and its engagement records.

Description: Exact admin role required. The cascade runs in one transaction;
deleting an entry that does not exist is a 404.

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

	if _, err := service.plantRepo.FindByID(context, id); err != nil {
		return err
	}

	if err := service.plantRepo.HardDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("plant_hard_deleted",
		slog.String("plant_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}
