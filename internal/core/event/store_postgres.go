// Copyright (c) 2026 Verdantia. All rights reserved.

package event

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantia/verdantia/internal/core/content"
	"github.com/verdantia/verdantia/internal/platform/dberr"
)

// PostgresRepository implements EventRepository using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of EventRepository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, ownerid, title, slug, description, location,
		startsat, endsat, status, isvisible, isfeatured, publishedat, createdat, updatedat`

func scanEvent(row pgx.Row) (*Event, error) {
	event := &Event{}
	err := row.Scan(
		&event.ID,
		&event.OwnerID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EndsAt,
		&event.Status,
		&event.IsVisible,
		&event.IsFeatured,
		&event.PublishedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
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
	if filter.UpcomingOnly {
		where += " AND startsat > NOW()"
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += " AND title ILIKE $" + strconv.Itoa(len(args))
	}

	var total int
	countQuery := "SELECT count(*) FROM core.event" + where
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Event")
	}

	// Upcoming soonest first.
	query := "SELECT " + eventColumns + " FROM core.event" + where +
		" ORDER BY startsat ASC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Event")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Event")
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Event, error) {
	query := "SELECT " + eventColumns + " FROM core.event WHERE id = $1"
	event, err := scanEvent(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Event")
	}
	return event, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Event, error) {
	query := "SELECT " + eventColumns + " FROM core.event WHERE slug = $1"
	event, err := scanEvent(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Event")
	}
	return event, nil
}

func (repository *PostgresRepository) Create(context context.Context, event *Event) error {
	const query = `
		INSERT INTO core.event (
			id, ownerid, title, slug, description, location,
			startsat, endsat, status, isvisible, isfeatured, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		event.ID,
		event.OwnerID,
		event.Title,
		event.Slug,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Status,
		event.IsVisible,
		event.IsFeatured,
		event.CreatedAt,
		event.UpdatedAt,
	)

	return dberr.Wrap(err, "Event")
}

func (repository *PostgresRepository) Update(context context.Context, event *Event) error {
	const query = `
		UPDATE core.event
		SET title = $2, slug = $3, description = $4, location = $5,
		    startsat = $6, endsat = $7, updatedat = $8
		WHERE id = $1`

	event.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		event.ID,
		event.Title,
		event.Slug,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.UpdatedAt,
	)

	return dberr.Wrap(err, "Event")
}

func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status content.Status) error {
	const query = `
		UPDATE core.event
		SET status = $2,
		    publishedat = CASE WHEN $2 = 'published' AND publishedat IS NULL THEN $3 ELSE publishedat END,
		    updatedat = $3
		WHERE id = $1`

	_, err := repository.db.Exec(context, query, id, status, time.Now())
	return dberr.Wrap(err, "Event")
}

func (repository *PostgresRepository) SetVisible(context context.Context, id string, visible bool) error {
	const query = "UPDATE core.event SET isvisible = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, visible, time.Now())
	return dberr.Wrap(err, "Event")
}

func (repository *PostgresRepository) SetFeatured(context context.Context, id string, featured bool) error {
	const query = "UPDATE core.event SET isfeatured = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, featured, time.Now())
	return dberr.Wrap(err, "Event")
}

func (repository *PostgresRepository) HardDelete(context context.Context, id string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Event")
	}
	defer func() { _ = transaction.Rollback(context) }()

	statements := []string{
		"DELETE FROM core.review WHERE targetkind = 'event' AND targetid = $1",
		"DELETE FROM core.favorite WHERE targetkind = 'event' AND targetid = $1",
		"DELETE FROM core.like WHERE targetkind = 'event' AND targetid = $1",
		"DELETE FROM core.event WHERE id = $1",
	}

	for _, statement := range statements {
		if _, err := transaction.Exec(context, statement, id); err != nil {
			return dberr.Wrap(err, "Event")
		}
	}

	return dberr.Wrap(transaction.Commit(context), "Event")
}
