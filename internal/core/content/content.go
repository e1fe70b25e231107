// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package content defines the publication lifecycle shared by articles and events.

# Lifecycle Axes

A content item carries two independent axes:

  - Publication status: draft -> published -> archived, with every adjacent
    transition reversible. The two non-adjacent transitions (draft <-> archived)
    are rejected: an item must pass through published in both directions.
  - Visibility: a reversible boolean soft-delete flag. Hiding an item does not
    touch its publication status, and restoring it brings back exactly the
    state it had when hidden.

Plants carry only the visibility axis; their services use the helpers here
without the status machinery.
*/
package content

import (
	"github.com/verdantia/verdantia/internal/platform/apperr"
)

// # Publication Status

// Status is the publication state of an article or event.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is one of the three known states.
func (status Status) IsValid() bool {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to target is a
// legal step. Same-state transitions are not steps and return false; callers
// treat them as no-ops before consulting the table.
func (status Status) CanTransition(target Status) bool {
	switch status {
	case StatusDraft:
		return target == StatusPublished
	case StatusPublished:
		return target == StatusDraft || target == StatusArchived
	case StatusArchived:
		return target == StatusPublished
	}
	return false
}

// TransitionError builds the canonical conflict error for an illegal step.
func TransitionError(from, to Status) error {
	return apperr.Conflict("Cannot transition from " + string(from) + " to " + string(to))
}

// # Shared Validation

// AllStatuses lists the valid states for request validation.
var AllStatuses = []string{string(StatusDraft), string(StatusPublished), string(StatusArchived)}
