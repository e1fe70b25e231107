// Copyright (c) 2026 Verdantia. All rights reserved.

package article_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/core/article"
	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/pkg/uuid"
)

// # Test Doubles

type stubRepo struct {
	articles map[string]*article.Article
	deleted  []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{articles: map[string]*article.Article{}}
}

func (r *stubRepo) List(_ context.Context, filter article.Filter, limit, offset int) ([]*article.Article, int, error) {
	var out []*article.Article
	for _, a := range r.articles {
		if !filter.IncludeHidden && !a.IsVisible {
			continue
		}
		if !filter.IncludeUnpublished && a.Status != content.StatusPublished {
			continue
		}
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		if filter.FeaturedOnly && !a.IsFeatured {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *stubRepo) FindByID(_ context.Context, id string) (*article.Article, error) {
	if a, ok := r.articles[id]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("Article")
}

func (r *stubRepo) FindBySlug(_ context.Context, slug string) (*article.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, apperr.NotFound("Article")
}

func (r *stubRepo) Create(_ context.Context, a *article.Article) error {
	r.articles[a.ID] = a
	return nil
}

func (r *stubRepo) Update(_ context.Context, a *article.Article) error {
	r.articles[a.ID] = a
	return nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id string, status content.Status) error {
	if a, ok := r.articles[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *stubRepo) SetVisible(_ context.Context, id string, visible bool) error {
	if a, ok := r.articles[id]; ok {
		a.IsVisible = visible
	}
	return nil
}

func (r *stubRepo) SetFeatured(_ context.Context, id string, featured bool) error {
	if a, ok := r.articles[id]; ok {
		a.IsFeatured = featured
	}
	return nil
}

func (r *stubRepo) HardDelete(_ context.Context, id string) error {
	delete(r.articles, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// # Fixtures

func identity(role sec.Role) *authz.Identity {
	return &authz.Identity{ID: uuid.New(), Role: role, IsActive: true}
}

func newService() (*article.Service, *stubRepo) {
	repo := newStubRepo()
	return article.NewService(repo, slog.Default()), repo
}

func seed(repo *stubRepo, owner *authz.Identity, status content.Status, visible bool) *article.Article {
	a := &article.Article{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     "Pruning Roses",
		Slug:      "pruning-roses-" + uuid.New()[:8],
		Body:      "Cut above the node.",
		Status:    status,
		IsVisible: visible,
	}
	repo.articles[a.ID] = a
	return a
}

// # Authoring

func TestService_CreateArticle(t *testing.T) {
	service, _ := newService()
	gardener := identity(sec.RoleGardener)

	created, err := service.CreateArticle(context.Background(), gardener, article.CreateInput{
		Title: "Composting 101",
		Body:  "Layer greens and browns.",
	})

	require.NoError(t, err)
	assert.Equal(t, content.StatusDraft, created.Status)
	assert.True(t, created.IsVisible)
	assert.False(t, created.IsFeatured)
	assert.Equal(t, gardener.ID, created.OwnerID)
	assert.Equal(t, "composting-101", created.Slug)
}

func TestService_CreateArticle_ViewerDenied(t *testing.T) {
	service, _ := newService()

	_, err := service.CreateArticle(context.Background(), identity(sec.RoleViewer), article.CreateInput{
		Title: "Nope",
		Body:  "Nope",
	})

	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
}

func TestService_UpdateArticle_Ownership(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusDraft, true)

	newTitle := "Pruning Roses, Revisited"

	t.Run("stranger_denied", func(t *testing.T) {
		_, err := service.UpdateArticle(context.Background(), identity(sec.RoleGardener), a.ID, article.UpdateInput{Title: &newTitle})
		require.Error(t, err)
		assert.Equal(t, "NOT_OWNER", apperr.As(err).Code)
	})

	t.Run("owner_allowed", func(t *testing.T) {
		updated, err := service.UpdateArticle(context.Background(), owner, a.ID, article.UpdateInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, "pruning-roses-revisited", updated.Slug)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		body := "Admin edit."
		updated, err := service.UpdateArticle(context.Background(), identity(sec.RoleAdmin), a.ID, article.UpdateInput{Body: &body})
		require.NoError(t, err)
		assert.Equal(t, body, updated.Body)
	})
}

// # Publication Axis

func TestService_ChangeStatus(t *testing.T) {
	tests := []struct {
		name     string
		from     content.Status
		to       content.Status
		wantErr  bool
		wantCode string
	}{
		{"draft_to_published", content.StatusDraft, content.StatusPublished, false, ""},
		{"published_to_draft", content.StatusPublished, content.StatusDraft, false, ""},
		{"published_to_archived", content.StatusPublished, content.StatusArchived, false, ""},
		{"archived_to_published", content.StatusArchived, content.StatusPublished, false, ""},
		{"draft_to_archived_rejected", content.StatusDraft, content.StatusArchived, true, "CONFLICT"},
		{"archived_to_draft_rejected", content.StatusArchived, content.StatusDraft, true, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()
			owner := identity(sec.RoleGardener)
			a := seed(repo, owner, tt.from, true)

			updated, err := service.ChangeStatus(context.Background(), owner, a.ID, tt.to)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.As(err).Code)
				assert.Equal(t, tt.from, repo.articles[a.ID].Status, "state must not change on a rejected transition")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestService_ChangeStatus_SameStateIsNoOp(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusPublished, true)

	updated, err := service.ChangeStatus(context.Background(), owner, a.ID, content.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, content.StatusPublished, updated.Status)
}

// # Visibility Axis

func TestService_SetVisibility(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusPublished, true)

	hidden, err := service.SetVisibility(context.Background(), owner, a.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsVisible)

	// Hiding leaves the publication status untouched.
	assert.Equal(t, content.StatusPublished, hidden.Status)

	// Hidden items vanish for the public but stay readable for the owner.
	_, err = service.GetArticle(context.Background(), nil, a.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	got, err := service.GetArticle(context.Background(), owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	// Restore brings back exactly the pre-hide state.
	restored, err := service.SetVisibility(context.Background(), owner, a.ID, true)
	require.NoError(t, err)
	assert.True(t, restored.IsVisible)
	assert.Equal(t, content.StatusPublished, restored.Status)
}

func TestService_GetArticle_DraftHiddenFromPublic(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusDraft, true)

	// Existence must not leak: 404, not 403.
	_, err := service.GetArticle(context.Background(), identity(sec.RoleViewer), a.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.GetArticle(context.Background(), identity(sec.RoleAdmin), a.ID)
	require.NoError(t, err)
}

// # Featured Flag

func TestService_SetFeatured(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusPublished, true)

	t.Run("owner_gardener_denied", func(t *testing.T) {
		_, err := service.SetFeatured(context.Background(), owner, a.ID, true)
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		updated, err := service.SetFeatured(context.Background(), identity(sec.RoleAdmin), a.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsFeatured)
	})

	t.Run("survives_lifecycle_changes", func(t *testing.T) {
		_, err := service.SetVisibility(context.Background(), owner, a.ID, false)
		require.NoError(t, err)
		assert.True(t, repo.articles[a.ID].IsFeatured, "featured flag is orthogonal to visibility")
	})
}

// # Hard Deletion

func TestService_HardDelete(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)
	a := seed(repo, owner, content.StatusPublished, true)

	t.Run("owner_denied", func(t *testing.T) {
		err := service.HardDelete(context.Background(), owner, a.ID)
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ROLE", apperr.As(err).Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		require.NoError(t, service.HardDelete(context.Background(), identity(sec.RoleAdmin), a.ID))
		assert.Contains(t, repo.deleted, a.ID)
	})

	t.Run("missing_is_not_found", func(t *testing.T) {
		err := service.HardDelete(context.Background(), identity(sec.RoleAdmin), a.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}

// # Listing

func TestService_ListArticles_Filtering(t *testing.T) {
	service, repo := newService()
	owner := identity(sec.RoleGardener)

	seed(repo, owner, content.StatusPublished, true)
	seed(repo, owner, content.StatusDraft, true)
	seed(repo, owner, content.StatusPublished, false)

	t.Run("public_sees_published_visible_only", func(t *testing.T) {
		articles, total, err := service.ListArticles(context.Background(), nil, article.Filter{}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, articles, 1)
	})

	t.Run("owner_sees_own_everything", func(t *testing.T) {
		_, total, err := service.ListArticles(context.Background(), owner, article.Filter{OwnerID: owner.ID}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("admin_sees_everything", func(t *testing.T) {
		_, total, err := service.ListArticles(context.Background(), identity(sec.RoleAdmin), article.Filter{OwnerID: owner.ID}, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}
