// Copyright (c) 2026 Verdantia. All rights reserved.

package plant_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/core/plant"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/pkg/uuid"
)

type stubRepo struct {
	plants map[string]*plant.Plant
}

func newStubRepo() *stubRepo {
	return &stubRepo{plants: map[string]*plant.Plant{}}
}

func (r *stubRepo) List(_ context.Context, filter plant.Filter, limit, offset int) ([]*plant.Plant, int, error) {
	var out []*plant.Plant
	for _, p := range r.plants {
		if !filter.IncludeHidden && !p.IsVisible {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *stubRepo) FindByID(_ context.Context, id string) (*plant.Plant, error) {
	if p, ok := r.plants[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Plant")
}

func (r *stubRepo) FindBySlug(_ context.Context, slug string) (*plant.Plant, error) {
	for _, p := range r.plants {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Plant")
}

func (r *stubRepo) Create(_ context.Context, p *plant.Plant) error {
	r.plants[p.ID] = p
	return nil
}

func (r *stubRepo) Update(_ context.Context, p *plant.Plant) error {
	r.plants[p.ID] = p
	return nil
}

func (r *stubRepo) SetVisible(_ context.Context, id string, visible bool) error {
	if p, ok := r.plants[id]; ok {
		p.IsVisible = visible
	}
	return nil
}

func (r *stubRepo) SetFeatured(_ context.Context, id string, featured bool) error {
	if p, ok := r.plants[id]; ok {
		p.IsFeatured = featured
	}
	return nil
}

func (r *stubRepo) HardDelete(_ context.Context, id string) error {
	delete(r.plants, id)
	return nil
}

func identity(role sec.Role) *authz.Identity {
	return &authz.Identity{ID: uuid.New(), Role: role, IsActive: true}
}

func seed(repo *stubRepo, ownerID string, visible bool) *plant.Plant {
	p := &plant.Plant{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		CommonName: "Snake Plant",
		Slug:       "snake-plant",
		IsVisible:  visible,
	}
	repo.plants[p.ID] = p
	return p
}

func TestService_CreatePlant(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	gardener := identity(sec.RoleGardener)

	created, err := service.CreatePlant(context.Background(), gardener, plant.CreateInput{
		CommonName:     "Monstera Deliciosa",
		ScientificName: "Monstera deliciosa",
		CareNotes:      "Water weekly, indirect light.",
	})

	require.NoError(t, err)
	assert.True(t, created.IsVisible)
	assert.False(t, created.IsFeatured)
	assert.Equal(t, "monstera-deliciosa", created.Slug)
	assert.Equal(t, gardener.ID, created.OwnerID)
}

func TestService_CreatePlant_Denied(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())

	t.Run("viewer", func(t *testing.T) {
		_, err := service.CreatePlant(context.Background(), identity(sec.RoleViewer), plant.CreateInput{
			CommonName: "Pothos",
		})
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
	})

	t.Run("missing_name", func(t *testing.T) {
		_, err := service.CreatePlant(context.Background(), identity(sec.RoleGardener), plant.CreateInput{})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestService_UpdatePlant_Ownership(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)
	p := seed(repo, owner.ID, true)

	newName := "Mother-in-Law's Tongue"

	t.Run("stranger_denied", func(t *testing.T) {
		_, err := service.UpdatePlant(context.Background(), identity(sec.RoleGardener), p.ID, plant.UpdateInput{
			CommonName: &newName,
		})
		require.Error(t, err)
		assert.Equal(t, "NOT_OWNER", apperr.As(err).Code)
	})

	t.Run("owner_updates_and_slug_follows", func(t *testing.T) {
		updated, err := service.UpdatePlant(context.Background(), owner, p.ID, plant.UpdateInput{
			CommonName: &newName,
		})
		require.NoError(t, err)
		assert.Equal(t, newName, updated.CommonName)
		assert.Equal(t, "mother-in-law-s-tongue", updated.Slug)
	})
}

func TestService_Visibility(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)
	p := seed(repo, owner.ID, true)
	p.IsFeatured = true

	hidden, err := service.SetVisibility(context.Background(), owner, p.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsVisible)
	assert.True(t, hidden.IsFeatured, "featured flag must survive hiding")

	t.Run("hidden_is_404_for_public", func(t *testing.T) {
		_, err := service.GetPlant(context.Background(), nil, p.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("owner_and_admin_still_read", func(t *testing.T) {
		_, err := service.GetPlant(context.Background(), owner, p.ID)
		require.NoError(t, err)
		_, err = service.GetPlant(context.Background(), identity(sec.RoleAdmin), p.ID)
		require.NoError(t, err)
	})

	t.Run("restore_is_exact", func(t *testing.T) {
		restored, err := service.SetVisibility(context.Background(), owner, p.ID, true)
		require.NoError(t, err)
		assert.True(t, restored.IsVisible)
		assert.True(t, restored.IsFeatured)
	})

	t.Run("idempotent_no_op", func(t *testing.T) {
		again, err := service.SetVisibility(context.Background(), owner, p.ID, true)
		require.NoError(t, err)
		assert.True(t, again.IsVisible)
	})
}

func TestService_SetFeatured_AdminOnly(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)
	p := seed(repo, owner.ID, true)

	_, err := service.SetFeatured(context.Background(), owner, p.ID, true)
	require.Error(t, err, "owners cannot feature their own plants")
	assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)

	featured, err := service.SetFeatured(context.Background(), identity(sec.RoleAdmin), p.ID, true)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
}

func TestService_HardDelete(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)
	admin := identity(sec.RoleAdmin)
	p := seed(repo, owner.ID, true)

	err := service.HardDelete(context.Background(), owner, p.ID)
	require.Error(t, err, "owners cannot hard delete")
	assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)

	require.NoError(t, service.HardDelete(context.Background(), admin, p.ID))

	err = service.HardDelete(context.Background(), admin, p.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_ListPlants_Filtering(t *testing.T) {
	repo := newStubRepo()
	service := plant.NewService(repo, slog.Default())
	owner := identity(sec.RoleGardener)
	seed(repo, owner.ID, true)
	seed(repo, owner.ID, false)

	public, total, err := service.ListPlants(context.Background(), nil, plant.Filter{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, public, 1)

	mine, total, err := service.ListPlants(context.Background(), owner, plant.Filter{OwnerID: owner.ID}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, mine, 2)

	all, total, err := service.ListPlants(context.Background(), identity(sec.RoleAdmin), plant.Filter{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}
