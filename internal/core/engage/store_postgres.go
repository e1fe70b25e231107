// Copyright (c) 2026 Verdantia. All rights reserved.

package engage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantia/verdantia/internal/platform/dberr"
)

// # Reviews

// PostgresReviewRepository implements ReviewRepository using pgx.
type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

const reviewColumns = "id, userid, targetkind, targetid, rating, body, createdat, updatedat"

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.TargetKind,
		&review.TargetID,
		&review.Rating,
		&review.Body,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	const query = `
		INSERT INTO core.review (id, userid, targetkind, targetid, rating, body, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		review.ID,
		review.UserID,
		review.TargetKind,
		review.TargetID,
		review.Rating,
		review.Body,
		review.CreatedAt,
		review.UpdatedAt,
	)

	return dberr.Wrap(err, "Review")
}

func (repository *PostgresReviewRepository) FindByID(context context.Context, id string) (*Review, error) {
	query := "SELECT " + reviewColumns + " FROM core.review WHERE id = $1"
	review, err := scanReview(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}
	return review, nil
}

func (repository *PostgresReviewRepository) ListForTarget(context context.Context, kind TargetKind, targetID string, limit, offset int) ([]*Review, int, error) {
	var total int
	const countQuery = "SELECT count(*) FROM core.review WHERE targetkind = $1 AND targetid = $2"
	if err := repository.db.QueryRow(context, countQuery, kind, targetID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}

	query := "SELECT " + reviewColumns + ` FROM core.review
		WHERE targetkind = $1 AND targetid = $2
		ORDER BY createdat DESC LIMIT $3 OFFSET $4`

	rows, err := repository.db.Query(context, query, kind, targetID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

func (repository *PostgresReviewRepository) Delete(context context.Context, id string) error {
	_, err := repository.db.Exec(context, "DELETE FROM core.review WHERE id = $1", id)
	return dberr.Wrap(err, "Review")
}

// # Favorites

// PostgresFavoriteRepository implements FavoriteRepository using pgx.
type PostgresFavoriteRepository struct {
	db *pgxpool.Pool
}

func NewFavoriteRepository(db *pgxpool.Pool) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db}
}

func (repository *PostgresFavoriteRepository) Create(context context.Context, favorite *Favorite) error {
	const query = `
		INSERT INTO core.favorite (id, userid, targetkind, targetid, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	favorite.CreatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		favorite.ID,
		favorite.UserID,
		favorite.TargetKind,
		favorite.TargetID,
		favorite.CreatedAt,
	)

	return dberr.Wrap(err, "Favorite")
}

func (repository *PostgresFavoriteRepository) Delete(context context.Context, userID string, kind TargetKind, targetID string) error {
	const query = "DELETE FROM core.favorite WHERE userid = $1 AND targetkind = $2 AND targetid = $3"
	_, err := repository.db.Exec(context, query, userID, kind, targetID)
	return dberr.Wrap(err, "Favorite")
}

func (repository *PostgresFavoriteRepository) ListForUser(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error) {
	var total int
	const countQuery = "SELECT count(*) FROM core.favorite WHERE userid = $1"
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Favorite")
	}

	const query = `
		SELECT id, userid, targetkind, targetid, createdat FROM core.favorite
		WHERE userid = $1 ORDER BY createdat DESC LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Favorite")
	}
	defer rows.Close()

	var favorites []*Favorite
	for rows.Next() {
		favorite := &Favorite{}
		err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.TargetKind, &favorite.TargetID, &favorite.CreatedAt)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Favorite")
		}
		favorites = append(favorites, favorite)
	}

	return favorites, total, rows.Err()
}

// # Likes

// PostgresLikeRepository implements LikeRepository using pgx.
type PostgresLikeRepository struct {
	db *pgxpool.Pool
}

func NewLikeRepository(db *pgxpool.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (repository *PostgresLikeRepository) Create(context context.Context, like *Like) error {
	const query = `
		INSERT INTO core.like (id, userid, targetkind, targetid, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	like.CreatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		like.ID,
		like.UserID,
		like.TargetKind,
		like.TargetID,
		like.CreatedAt,
	)

	return dberr.Wrap(err, "Like")
}

func (repository *PostgresLikeRepository) Delete(context context.Context, userID string, kind TargetKind, targetID string) error {
	const query = "DELETE FROM core.like WHERE userid = $1 AND targetkind = $2 AND targetid = $3"
	_, err := repository.db.Exec(context, query, userID, kind, targetID)
	return dberr.Wrap(err, "Like")
}

func (repository *PostgresLikeRepository) Summary(context context.Context, kind TargetKind, targetID string, userID string) (*LikeSummary, error) {
	const query = `
		SELECT count(*),
		       count(*) FILTER (WHERE userid = $3) > 0
		FROM core.like WHERE targetkind = $1 AND targetid = $2`

	summary := &LikeSummary{}
	err := repository.db.QueryRow(context, query, kind, targetID, userID).Scan(&summary.Count, &summary.LikedByMe)
	if err != nil {
		return nil, dberr.Wrap(err, "Like")
	}

	return summary, nil
}
