// Copyright (c) 2026 FormGrid. All rights reserved.

package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/formgrid/formgrid/internal/platform/dberr"
)

// DB is the subset of [pgxpool.Pool] the repositories need. Declared as an
// interface so store tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	db DB
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(db DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `
	id, username, password_hash, temp_reset_password_hash, account_type,
	account_status, login_page, logout_url, ui_language, theme, swatch,
	credential_version, last_logged_in, created_at, updated_at`

// scanAccount hydrates one account row.
func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.TempResetPasswordHash,
		&account.Type,
		&account.Status,
		&account.LoginPage,
		&account.LogoutURL,
		&account.Language,
		&account.Theme,
		&account.Swatch,
		&account.CredentialVersion,
		&account.LastLoggedIn,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

/*
FindByID retrieves an account record by its unique ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE id = $1`

	account, err := scanAccount(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return account, nil
}

/*
FindByUsername retrieves an account record by its unique username.

Description: Standard lookup used by the Authenticator at the top of the
login flow.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE username = $1`

	account, err := scanAccount(repository.db.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return account, nil
}

/*
CountByCredentialVersion counts accounts matching both ID and credential
version.

Description: The Session Guard's re-validation query. Exactly one row means
the session's credential snapshot is still current; anything else means the
password changed (or the account vanished) since login.

Parameters:
  - context: context.Context
  - id: string
  - credentialVersion: int64

Returns:
  - int: Matching row count
  - error: Database errors
*/
func (repository *PostgresAccountRepository) CountByCredentialVersion(context context.Context, id string, credentialVersion int64) (int, error) {
	const query = `
		SELECT count(*)
		FROM accounts
		WHERE id = $1 AND credential_version = $2`

	var count int
	if err := repository.db.QueryRow(context, query, id, credentialVersion).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_account_repo_count_by_credential_failed: %w", err)
	}

	return count, nil
}

/*
UpdateStatus sets the lifecycle status of an account.

Parameters:
  - context: context.Context
  - id: string
  - status: AccountStatus

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAccountRepository) UpdateStatus(context context.Context, id string, status AccountStatus) error {
	const query = `
		UPDATE accounts
		SET account_status = $2, updated_at = $3
		WHERE id = $1`

	if _, err := repository.db.Exec(context, query, id, status, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_repo_update_status_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword replaces the password hash, clears the temporary reset hash,
and bumps the credential version.

Description: The credential version bump is what invalidates every live
session for this account on its next guarded request.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, id string, newHash string) error {
	const query = `
		UPDATE accounts
		SET password_hash = $2,
		    temp_reset_password_hash = NULL,
		    credential_version = credential_version + 1,
		    updated_at = $3
		WHERE id = $1`

	if _, err := repository.db.Exec(context, query, id, newHash, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
TouchLastLoggedIn stamps the last successful login time.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAccountRepository) TouchLastLoggedIn(context context.Context, id string) error {
	const query = `
		UPDATE accounts
		SET last_logged_in = $2
		WHERE id = $1`

	if _, err := repository.db.Exec(context, query, id, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_repo_touch_last_logged_in_failed: %w", err)
	}

	return nil
}

// # Settings Repository

// PostgresSettingsRepository implements the SettingsRepository interface using pgx.
type PostgresSettingsRepository struct {
	db DB
}

// NewSettingsRepository creates a new PostgreSQL implementation of the SettingsRepository.
func NewSettingsRepository(db DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

/*
Get returns the full settings bag for an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - Settings: Key-value bag (empty when the account has no overrides)
  - error: Database errors
*/
func (repository *PostgresSettingsRepository) Get(context context.Context, accountID string) (Settings, error) {
	const query = `
		SELECT setting_key, setting_value
		FROM account_settings
		WHERE account_id = $1`

	rows, err := repository.db.Query(context, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("postgres_settings_repo_get_failed: %w", err)
	}
	defer rows.Close()

	bag := Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("postgres_settings_repo_scan_failed: %w", err)
		}
		bag[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_settings_repo_rows_failed: %w", err)
	}

	return bag, nil
}

/*
Set upserts the provided keys into an account's settings bag.

Parameters:
  - context: context.Context
  - accountID: string
  - values: Settings

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSettingsRepository) Set(context context.Context, accountID string, values Settings) error {
	const query = `
		INSERT INTO account_settings (account_id, setting_key, setting_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value`

	for key, value := range values {
		if _, err := repository.db.Exec(context, query, accountID, key, value); err != nil {
			return fmt.Errorf("postgres_settings_repo_set_failed (key=%s): %w", key, err)
		}
	}

	return nil
}

// Ensure the concrete types satisfy the domain contracts.
var (
	_ AccountRepository  = (*PostgresAccountRepository)(nil)
	_ SettingsRepository = (*PostgresSettingsRepository)(nil)
)
