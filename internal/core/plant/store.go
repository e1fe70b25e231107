// Copyright (c) 2026 Verdantia. All rights reserved.

package plant

import "context"

// # Plant Data Access

// PlantRepository defines the data access contract for catalogue entries.
type PlantRepository interface {
	// List returns a filtered page of plants with the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Plant, int, error)

	// FindByID returns the plant with the given ID regardless of visibility;
	// per-actor filtering happens in the service.
	FindByID(context context.Context, id string) (*Plant, error)

	// FindBySlug returns the plant with the given URL slug.
	FindBySlug(context context.Context, slug string) (*Plant, error)

	// Create persists a new catalogue entry.
	Create(context context.Context, plant *Plant) error

	// Update persists changes to the descriptive fields. The visibility and
	// featured flags have their own dedicated writes below.
	Update(context context.Context, plant *Plant) error

	// SetVisible toggles the reversible visibility flag.
	SetVisible(context context.Context, id string, visible bool) error

	// SetFeatured toggles the admin-curated featured flag.
	SetFeatured(context context.Context, id string, featured bool) error

	// HardDelete permanently removes the plant and every engagement record
	// attached to it, in a single transaction.
	HardDelete(context context.Context, id string) error
}
