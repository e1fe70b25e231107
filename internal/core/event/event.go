// Copyright (c) 2026 Verdantia. All rights reserved.

// Package event implements community gardening events: workshops, plant
// swaps, open-garden days. Events share the article publication lifecycle
// and add scheduling metadata.
package event

import (
	"time"

	"github.com/verdantia/verdantia/internal/core/content"
)

// Event represents a scheduled community happening.
type Event struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`

	Status     content.Status `json:"status"`
	IsVisible  bool           `json:"is_visible"`
	IsFeatured bool           `json:"is_featured"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Filter narrows an event listing.
type Filter struct {
	Status       content.Status
	OwnerID      string
	FeaturedOnly bool
	// UpcomingOnly keeps events that have not started yet.
	UpcomingOnly bool
	Query        string

	// Set by the service from the acting identity, never from the request.
	IncludeHidden      bool
	IncludeUnpublished bool
}

const (
	FieldTitle    = "title"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
	FieldStatus   = "status"
	FieldVisible  = "visible"
)
