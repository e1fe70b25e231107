// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package article implements the gardening article domain.

Articles are the richest content kind on the platform: they carry the full
publication lifecycle (draft -> published -> archived), the reversible
visibility flag, and the admin-curated featured flag.

# Core Responsibility

  - Lifecycle: publication transitions per the shared content state table.
  - Curation: the featured flag is orthogonal to the lifecycle and admin-only.
  - Discovery: slug-based lookup and filtered, paginated listings.
*/
package article

import (
	"time"

	"github.com/verdantia/verdantia/internal/core/content"
)

// # Article Aggregate

// Article represents a single published or in-progress gardening article.
type Article struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Summary string   `json:"summary,omitempty"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags,omitempty"`

	// Status is the publication axis; see the content package for the
	// transition table.
	Status content.Status `json:"status"`

	// IsVisible is the reversible soft-delete axis, independent of Status.
	IsVisible bool `json:"is_visible"`

	// IsFeatured is admin-curated and orthogonal to both lifecycle axes. A
	// featured article that is hidden or unpublished simply stops appearing.
	IsFeatured bool `json:"is_featured"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// # Filter Criteria

// Filter holds parameters for narrowing an article listing.
type Filter struct {
	// Status filters by publication state when non-empty.
	Status content.Status
	// OwnerID restricts the listing to one author.
	OwnerID string
	// FeaturedOnly keeps only admin-curated articles.
	FeaturedOnly bool
	// Tag keeps articles carrying the given tag.
	Tag string
	// Query matches title substrings.
	Query string

	// IncludeHidden and IncludeUnpublished are set by the service based on
	// the acting identity; they are never taken from the request directly.
	IncludeHidden      bool
	IncludeUnpublished bool
}

// # JSON Field Names

const (
	FieldTitle   = "title"
	FieldBody    = "body"
	FieldSummary = "summary"
	FieldStatus  = "status"
	FieldVisible = "visible"
	FieldTag     = "tag"
)
