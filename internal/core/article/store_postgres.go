// Copyright (c) 2026 Verdantia. All rights reserved.

package article

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/dberr"
)

// PostgresRepository implements ArticleRepository using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of ArticleRepository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const articleColumns = `id, ownerid, title, slug, summary, body, tags,
		status, isvisible, isfeatured, publishedat, createdat, updatedat`

func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	err := row.Scan(
		&article.ID,
		&article.OwnerID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Body,
		&article.Tags,
		&article.Status,
		&article.IsVisible,
		&article.IsFeatured,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	where := " WHERE TRUE"
	args := []any{}

	if !filter.IncludeHidden {
		where += " AND isvisible = TRUE"
	}
	if !filter.IncludeUnpublished {
		where += " AND status = 'published'"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += " AND ownerid = $" + strconv.Itoa(len(args))
	}
	if filter.FeaturedOnly {
		where += " AND isfeatured = TRUE"
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += " AND $" + strconv.Itoa(len(args)) + " = ANY(tags)"
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += " AND title ILIKE $" + strconv.Itoa(len(args))
	}

	var total int
	countQuery := "SELECT count(*) FROM core.article" + where
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Article")
	}

	query := "SELECT " + articleColumns + " FROM core.article" + where +
		" ORDER BY createdat DESC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Article")
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Article")
		}
		articles = append(articles, article)
	}

	return articles, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	query := "SELECT " + articleColumns + " FROM core.article WHERE id = $1"
	article, err := scanArticle(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Article")
	}
	return article, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	query := "SELECT " + articleColumns + " FROM core.article WHERE slug = $1"
	article, err := scanArticle(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Article")
	}
	return article, nil
}

func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO core.article (
			id, ownerid, title, slug, summary, body, tags,
			status, isvisible, isfeatured, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		article.ID,
		article.OwnerID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Body,
		article.Tags,
		article.Status,
		article.IsVisible,
		article.IsFeatured,
		article.CreatedAt,
		article.UpdatedAt,
	)

	return dberr.Wrap(err, "Article")
}

func (repository *PostgresRepository) Update(context context.Context, article *Article) error {
	const query = `
		UPDATE core.article
		SET title = $2, slug = $3, summary = $4, body = $5, tags = $6, updatedat = $7
		WHERE id = $1`

	article.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Body,
		article.Tags,
		article.UpdatedAt,
	)

	return dberr.Wrap(err, "Article")
}

// UpdateStatus maintains publishedat: the first move into published stamps
// it, later transitions leave the original timestamp.
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status content.Status) error {
	const query = `
		UPDATE core.article
		SET status = $2,
		    publishedat = CASE WHEN $2 = 'published' AND publishedat IS NULL THEN $3 ELSE publishedat END,
		    updatedat = $3
		WHERE id = $1`

	_, err := repository.db.Exec(context, query, id, status, time.Now())
	return dberr.Wrap(err, "Article")
}

func (repository *PostgresRepository) SetVisible(context context.Context, id string, visible bool) error {
	const query = "UPDATE core.article SET isvisible = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, visible, time.Now())
	return dberr.Wrap(err, "Article")
}

func (repository *PostgresRepository) SetFeatured(context context.Context, id string, featured bool) error {
	const query = "UPDATE core.article SET isfeatured = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, featured, time.Now())
	return dberr.Wrap(err, "Article")
}

// HardDelete removes the article and its engagement records in one transaction.
func (repository *PostgresRepository) HardDelete(context context.Context, id string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Article")
	}
	defer func() { _ = transaction.Rollback(context) }()

	statements := []string{
		"DELETE FROM core.review WHERE targetkind = 'article' AND targetid = $1",
		"DELETE FROM core.favorite WHERE targetkind = 'article' AND targetid = $1",
		"DELETE FROM core.like WHERE targetkind = 'article' AND targetid = $1",
		"DELETE FROM core.article WHERE id = $1",
	}

	for _, statement := range statements {
		if _, err := transaction.Exec(context, statement, id); err != nil {
			return dberr.Wrap(err, "Article")
		}
	}

	return dberr.Wrap(transaction.Commit(context), "Article")
}
