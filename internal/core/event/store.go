// Copyright (c) 2026 Verdantia. All rights reserved.

package event

import (
	"context"

	"github.com/verdantia/verdantia/internal/core/content"
)

// EventRepository defines the data access contract for events.
type EventRepository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error)
	FindByID(context context.Context, id string) (*Event, error)
	FindBySlug(context context.Context, slug string) (*Event, error)
	Create(context context.Context, event *Event) error
	Update(context context.Context, event *Event) error
	UpdateStatus(context context.Context, id string, status content.Status) error
	SetVisible(context context.Context, id string, visible bool) error
	SetFeatured(context context.Context, id string, featured bool) error

	// HardDelete removes the event and its engagement records in one
	// transaction.
	HardDelete(context context.Context, id string) error
}
