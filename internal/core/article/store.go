// Copyright (c) 2026 Verdantia. All rights reserved.

package article

import (
	"context"

	"github.com/verdantia/verdantia/internal/core/content"
)

// # Article Data Access

// ArticleRepository defines the data access contract for articles.
type ArticleRepository interface {

	/*
		List returns a filtered page of articles with the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Article: Hydrated page, newest first
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error)

	/*
		FindByID returns the article with the given ID regardless of its
		lifecycle state; per-actor filtering happens in the service.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Article: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Article, error)

	/*
		FindBySlug returns the article with the given URL slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Article: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Article, error)

	/*
		Create persists a new article.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, article *Article) error

	/*
		Update persists changes to an article's content fields. Lifecycle
		columns have their own dedicated writes below.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: Update failures
	*/
	Update(context context.Context, article *Article) error

	/*
		UpdateStatus moves the publication axis and maintains publishedat.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: content.Status

		Returns:
		  - error: Update failures
	*/
	UpdateStatus(context context.Context, id string, status content.Status) error

	/*
		SetVisible toggles the reversible visibility flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - visible: bool

		Returns:
		  - error: Update failures
	*/
	SetVisible(context context.Context, id string, visible bool) error

	/*
		SetFeatured toggles the admin-curated featured flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - featured: bool

		Returns:
		  - error: Update failures
	*/
	SetFeatured(context context.Context, id string, featured bool) error

	/*
		HardDelete permanently removes the article and every engagement record
		attached to it, in a single transaction.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Cascade failures (transaction rolled back)
	*/
	HardDelete(context context.Context, id string) error
}
