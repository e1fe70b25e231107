// Copyright (c) 2026 Verdantia. All rights reserved.

package event_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/core/event"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/pkg/uuid"
)

type stubRepo struct {
	events map[string]*event.Event
}

func newStubRepo() *stubRepo {
	return &stubRepo{events: map[string]*event.Event{}}
}

func (r *stubRepo) List(_ context.Context, filter event.Filter, limit, offset int) ([]*event.Event, int, error) {
	var out []*event.Event
	for _, e := range r.events {
		if !filter.IncludeHidden && !e.IsVisible {
			continue
		}
		if !filter.IncludeUnpublished && e.Status != content.StatusPublished {
			continue
		}
		if filter.UpcomingOnly && !e.StartsAt.After(time.Now()) {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r *stubRepo) FindByID(_ context.Context, id string) (*event.Event, error) {
	if e, ok := r.events[id]; ok {
		return e, nil
	}
	return nil, apperr.NotFound("Event")
}

func (r *stubRepo) FindBySlug(_ context.Context, slug string) (*event.Event, error) {
	for _, e := range r.events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, apperr.NotFound("Event")
}

func (r *stubRepo) Create(_ context.Context, e *event.Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *stubRepo) Update(_ context.Context, e *event.Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id string, status content.Status) error {
	if e, ok := r.events[id]; ok {
		e.Status = status
	}
	return nil
}

func (r *stubRepo) SetVisible(_ context.Context, id string, visible bool) error {
	if e, ok := r.events[id]; ok {
		e.IsVisible = visible
	}
	return nil
}

func (r *stubRepo) SetFeatured(_ context.Context, id string, featured bool) error {
	if e, ok := r.events[id]; ok {
		e.IsFeatured = featured
	}
	return nil
}

func (r *stubRepo) HardDelete(_ context.Context, id string) error {
	delete(r.events, id)
	return nil
}

func identity(role sec.Role) *authz.Identity {
	return &authz.Identity{ID: uuid.New(), Role: role, IsActive: true}
}

func TestService_CreateEvent(t *testing.T) {
	repo := newStubRepo()
	service := event.NewService(repo, slog.Default())
	gardener := identity(sec.RoleGardener)

	starts := time.Now().Add(48 * time.Hour)
	created, err := service.CreateEvent(context.Background(), gardener, event.CreateInput{
		Title:    "Spring Plant Swap",
		Location: "Community Garden",
		StartsAt: starts,
	})

	require.NoError(t, err)
	assert.Equal(t, content.StatusDraft, created.Status)
	assert.True(t, created.IsVisible)
	assert.Equal(t, "spring-plant-swap", created.Slug)
}

func TestService_CreateEvent_Validation(t *testing.T) {
	repo := newStubRepo()
	service := event.NewService(repo, slog.Default())
	gardener := identity(sec.RoleGardener)

	t.Run("viewer_denied", func(t *testing.T) {
		_, err := service.CreateEvent(context.Background(), identity(sec.RoleViewer), event.CreateInput{
			Title:    "Nope",
			StartsAt: time.Now(),
		})
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
	})

	t.Run("missing_start", func(t *testing.T) {
		_, err := service.CreateEvent(context.Background(), gardener, event.CreateInput{Title: "No time"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("ends_before_starts", func(t *testing.T) {
		starts := time.Now().Add(time.Hour)
		ends := starts.Add(-time.Minute)
		_, err := service.CreateEvent(context.Background(), gardener, event.CreateInput{
			Title:    "Backwards",
			StartsAt: starts,
			EndsAt:   &ends,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestService_ChangeStatus_SharedTable(t *testing.T) {
	repo := newStubRepo()
	service := event.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)

	e := &event.Event{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     "Workshop",
		Slug:      "workshop",
		StartsAt:  time.Now().Add(time.Hour),
		Status:    content.StatusDraft,
		IsVisible: true,
	}
	repo.events[e.ID] = e

	// Draft cannot jump straight to archived.
	_, err := service.ChangeStatus(context.Background(), owner, e.ID, content.StatusArchived)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// The long way round works.
	_, err = service.ChangeStatus(context.Background(), owner, e.ID, content.StatusPublished)
	require.NoError(t, err)
	updated, err := service.ChangeStatus(context.Background(), owner, e.ID, content.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, content.StatusArchived, updated.Status)
}

func TestService_GetEvent_VisibilityRules(t *testing.T) {
	repo := newStubRepo()
	service := event.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)

	e := &event.Event{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     "Hidden Workshop",
		Slug:      "hidden-workshop",
		StartsAt:  time.Now().Add(time.Hour),
		Status:    content.StatusPublished,
		IsVisible: false,
	}
	repo.events[e.ID] = e

	_, err := service.GetEvent(context.Background(), nil, e.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.GetEvent(context.Background(), owner, e.ID)
	require.NoError(t, err)

	_, err = service.GetEvent(context.Background(), identity(sec.RoleAdmin), e.ID)
	require.NoError(t, err)
}
