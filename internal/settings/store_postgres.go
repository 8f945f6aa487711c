// Copyright (c) 2026 FormGrid. All rights reserved.

package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of [pgxpool.Pool] the repository needs. Declared as an
// interface so store tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Load returns the full application defaults bag from the app_settings table.

Parameters:
  - context: context.Context

Returns:
  - Defaults: Key-value bag (empty when nothing is configured)
  - error: Execution failures
*/
func (repository *PostgresRepository) Load(context context.Context) (Defaults, error) {
	const query = `
		SELECT setting_key, setting_value
		FROM app_settings`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_settings_load_failed: %w", err)
	}
	defer rows.Close()

	defaults := Defaults{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("postgres_settings_scan_failed: %w", err)
		}
		defaults[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_settings_rows_failed: %w", err)
	}

	return defaults, nil
}

/*
Save upserts the provided keys into the app_settings table.

Parameters:
  - context: context.Context
  - values: Defaults

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Save(context context.Context, values Defaults) error {
	const query = `
		INSERT INTO app_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value`

	for key, value := range values {
		if _, err := repository.db.Exec(context, query, key, value); err != nil {
			return fmt.Errorf("postgres_settings_save_failed (key=%s): %w", key, err)
		}
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
