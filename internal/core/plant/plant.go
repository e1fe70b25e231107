// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package plant implements the plant catalogue domain.

Plants are reference entries rather than editorial content: they have no
publication lifecycle. A plant is either visible in the catalogue or soft
deleted, and admins may feature catalogue highlights.
*/
package plant

import "time"

// # Plant Aggregate

// Plant represents one catalogue entry contributed by a gardener.
type Plant struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name,omitempty"`
	Slug           string `json:"slug"`
	Description    string `json:"description,omitempty"`
	CareNotes      string `json:"care_notes,omitempty"`

	// IsVisible is the reversible soft-delete flag. Hidden plants are
	// readable by their owner and admins only.
	IsVisible bool `json:"is_visible"`

	// IsFeatured is admin-curated and independent of visibility.
	IsFeatured bool `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds parameters for narrowing a plant listing.
type Filter struct {
	OwnerID      string
	FeaturedOnly bool
	// Query matches common and scientific name substrings.
	Query string

	// IncludeHidden is set by the service based on the acting identity; it
	// is never taken from the request directly.
	IncludeHidden bool
}

// # JSON Field Names

const (
	FieldCommonName     = "common_name"
	FieldScientificName = "scientific_name"
	FieldDescription    = "description"
	FieldVisible        = "visible"
)
