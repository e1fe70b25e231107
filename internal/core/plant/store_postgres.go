// Copyright (c) 2026 Verdantia. All rights reserved.

package plant

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantia/verdantia/internal/platform/dberr"
)

// PostgresRepository implements PlantRepository using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of PlantRepository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const plantColumns = `id, ownerid, commonname, scientificname, slug,
		description, carenotes, isvisible, isfeatured, createdat, updatedat`

func scanPlant(row pgx.Row) (*Plant, error) {
	plant := &Plant{}
	err := row.Scan(
		&plant.ID,
		&plant.OwnerID,
		&plant.CommonName,
		&plant.ScientificName,
		&plant.Slug,
		&plant.Description,
		&plant.CareNotes,
		&plant.IsVisible,
		&plant.IsFeatured,
		&plant.CreatedAt,
		&plant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return plant, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Plant, int, error) {
	where := " WHERE TRUE"
	args := []any{}

	if !filter.IncludeHidden {
		where += " AND isvisible = TRUE"
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += " AND ownerid = $" + strconv.Itoa(len(args))
	}
	if filter.FeaturedOnly {
		where += " AND isfeatured = TRUE"
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		where += " AND (commonname ILIKE " + placeholder + " OR scientificname ILIKE " + placeholder + ")"
	}

	var total int
	countQuery := "SELECT count(*) FROM core.plant" + where
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Plant")
	}

	query := "SELECT " + plantColumns + " FROM core.plant" + where +
		" ORDER BY commonname ASC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Plant")
	}
	defer rows.Close()

	var plants []*Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Plant")
		}
		plants = append(plants, plant)
	}

	return plants, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Plant, error) {
	query := "SELECT " + plantColumns + " FROM core.plant WHERE id = $1"
	plant, err := scanPlant(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Plant")
	}
	return plant, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Plant, error) {
	query := "SELECT " + plantColumns + " FROM core.plant WHERE slug = $1"
	plant, err := scanPlant(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Plant")
	}
	return plant, nil
}

func (repository *PostgresRepository) Create(context context.Context, plant *Plant) error {
	const query = `
		INSERT INTO core.plant (
			id, ownerid, commonname, scientificname, slug,
			description, carenotes, isvisible, isfeatured, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	plant.CreatedAt = now
	plant.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		plant.ID,
		plant.OwnerID,
		plant.CommonName,
		plant.ScientificName,
		plant.Slug,
		plant.Description,
		plant.CareNotes,
		plant.IsVisible,
		plant.IsFeatured,
		plant.CreatedAt,
		plant.UpdatedAt,
	)

	return dberr.Wrap(err, "Plant")
}

func (repository *PostgresRepository) Update(context context.Context, plant *Plant) error {
	const query = `
		UPDATE core.plant
		SET commonname = $2, scientificname = $3, slug = $4,
		    description = $5, carenotes = $6, updatedat = $7
		WHERE id = $1`

	plant.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		plant.ID,
		plant.CommonName,
		plant.ScientificName,
		plant.Slug,
		plant.Description,
		plant.CareNotes,
		plant.UpdatedAt,
	)

	return dberr.Wrap(err, "Plant")
}

func (repository *PostgresRepository) SetVisible(context context.Context, id string, visible bool) error {
	const query = "UPDATE core.plant SET isvisible = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, visible, time.Now())
	return dberr.Wrap(err, "Plant")
}

func (repository *PostgresRepository) SetFeatured(context context.Context, id string, featured bool) error {
	const query = "UPDATE core.plant SET isfeatured = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.db.Exec(context, query, id, featured, time.Now())
	return dberr.Wrap(err, "Plant")
}

// HardDelete removes the plant and its engagement records in one transaction.
func (repository *PostgresRepository) HardDelete(context context.Context, id string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Plant")
	}
	defer func() { _ = transaction.Rollback(context) }()

	statements := []string{
		"DELETE FROM core.review WHERE targetkind = 'plant' AND targetid = $1",
		"DELETE FROM core.favorite WHERE targetkind = 'plant' AND targetid = $1",
		"DELETE FROM core.like WHERE targetkind = 'plant' AND targetid = $1",
		"DELETE FROM core.plant WHERE id = $1",
	}

	for _, statement := range statements {
		if _, err := transaction.Exec(context, statement, id); err != nil {
			return dberr.Wrap(err, "Plant")
		}
	}

	return dberr.Wrap(transaction.Commit(context), "Plant")
}
