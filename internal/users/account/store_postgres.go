// Copyright (c) 2026 Verdantia. All rights reserved.

package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/users/auth"
)

// # Account Repository

// PostgresAccountRepository implements AccountRepository using pgx.
//
// It shares the users.account table with the auth package's repository but is
// the only writer of lifecycle columns (role, isactive, ban fields).
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const accountColumns = `id, username, email, passwordhash, displayname, bio, experiencelevel,
		role, isactive, isbanned, banreason, bannedat, bannedby, createdat, updatedat`

func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.ExperienceLevel,
		&user.Role,
		&user.IsActive,
		&user.IsBanned,
		&user.BanReason,
		&user.BannedAt,
		&user.BannedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves an account by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to an account's mutable profile fields.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, bio = $3, experiencelevel = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.Bio,
		user.ExperienceLevel,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
List retrieves a filtered, paginated page of accounts with the total count.

Description: Filters compose dynamically; each one appends a parameterized
predicate to both the page query and the count query.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []auth.User: Page of accounts ordered by creation time (newest first)
  - int: Total matching count
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]auth.User, int, error) {
	where := " WHERE TRUE"
	args := []any{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		where += " AND role = $" + strconv.Itoa(len(args))
	}

	switch filter.Status {
	case StatusActive:
		where += " AND isactive = TRUE AND isbanned = FALSE"
	case StatusInactive:
		where += " AND isactive = FALSE"
	case StatusBanned:
		where += " AND isbanned = TRUE"
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		where += " AND (username ILIKE " + placeholder + " OR email ILIKE " + placeholder + ")"
	}

	countQuery := "SELECT count(*) FROM users.account" + where

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := "SELECT " + accountColumns + " FROM users.account" + where +
		" ORDER BY createdat DESC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, *user)
	}

	return users, total, rows.Err()
}

// # Lifecycle Writes

/*
UpdateRole moves an account to a different role.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, userID string, role sec.Role) error {
	const query = "UPDATE users.account SET role = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_role_failed: %w", err)
	}
	return nil
}

/*
SetActive toggles the activation axis of an account.

Parameters:
  - context: context.Context
  - userID: string
  - active: bool

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) SetActive(context context.Context, userID string, active bool) error {
	const query = "UPDATE users.account SET isactive = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, userID, active, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_active_failed: %w", err)
	}
	return nil
}

/*
SetBan records an administrative sanction on an account.

Description: Writes only the ban columns. The active flag is untouched so the
two lifecycle axes stay independent.

Parameters:
  - context: context.Context
  - userID: string
  - reason: string
  - bannedBy: string (admin account ID)

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) SetBan(context context.Context, userID, reason, bannedBy string) error {
	const query = `
		UPDATE users.account
		SET isbanned = TRUE, banreason = $2, bannedat = $3, bannedby = $4, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, reason, time.Now(), bannedBy)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_ban_failed: %w", err)
	}
	return nil
}

/*
ClearBan lifts an administrative sanction from an account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) ClearBan(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET isbanned = FALSE, banreason = '', bannedat = NULL, bannedby = '', updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_clear_ban_failed: %w", err)
	}
	return nil
}

// # Cascading Deletion

/*
PurgeAccount irreversibly removes an account and everything it owns.

Description: Runs as one transaction. Order matters: engagement records go
first (both those the account authored and those attached to its content),
then the content itself, then sessions, then the account row. Any failure
rolls the whole cascade back.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Cascade failures (transaction rolled back)
*/
func (repository *PostgresAccountRepository) PurgeAccount(context context.Context, userID string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_purge_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const ownedContent = `
		SELECT id FROM core.plant WHERE ownerid = $1
		UNION SELECT id FROM core.article WHERE ownerid = $1
		UNION SELECT id FROM core.event WHERE ownerid = $1`

	statements := []string{
		// Engagement authored by the account.
		"DELETE FROM core.review WHERE userid = $1",
		"DELETE FROM core.favorite WHERE userid = $1",
		"DELETE FROM core.like WHERE userid = $1",

		// Engagement attached to content the account owns.
		"DELETE FROM core.review WHERE targetid IN (" + ownedContent + ")",
		"DELETE FROM core.favorite WHERE targetid IN (" + ownedContent + ")",
		"DELETE FROM core.like WHERE targetid IN (" + ownedContent + ")",

		// The content itself.
		"DELETE FROM core.plant WHERE ownerid = $1",
		"DELETE FROM core.article WHERE ownerid = $1",
		"DELETE FROM core.event WHERE ownerid = $1",

		// Sessions, then the account row.
		"DELETE FROM users.session WHERE userid = $1",
		"DELETE FROM users.account WHERE id = $1",
	}

	for _, statement := range statements {
		if _, err := transaction.Exec(context, statement, userID); err != nil {
			return fmt.Errorf("postgres_account_repo_purge_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_account_repo_purge_commit_failed: %w", err)
	}

	return nil
}

// # Promotion Support

/*
CountApprovedContributions reports how many of the account's content items
have reached an approved state.

Description: Published articles and events count, as do visible plants
(plants have no publication axis) and reviews the account has written.
Reviews are the one contribution a viewer can make, so they keep the
login-time promotion rule reachable before the first role change.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Approved contribution count
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) CountApprovedContributions(context context.Context, userID string) (int, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM core.plant   WHERE ownerid = $1 AND isvisible = TRUE) +
			(SELECT count(*) FROM core.article WHERE ownerid = $1 AND status = 'published' AND isvisible = TRUE) +
			(SELECT count(*) FROM core.event   WHERE ownerid = $1 AND status = 'published' AND isvisible = TRUE) +
			(SELECT count(*) FROM core.review  WHERE userid  = $1)`

	var count int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_account_repo_count_contributions_failed: %w", err)
	}

	return count, nil
}
