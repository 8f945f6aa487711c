// Copyright (c) 2026 FormGrid. All rights reserved.

package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgrid/formgrid/internal/platform/apperr"
	"github.com/formgrid/formgrid/internal/platform/sec"
)

var accountRowColumns = []string{
	"id", "username", "password_hash", "temp_reset_password_hash", "account_type",
	"account_status", "login_page", "logout_url", "ui_language", "theme", "swatch",
	"credential_version", "last_logged_in", "created_at", "updated_at",
}

func addAccountRow(rows *pgxmock.Rows, id, username string) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, username, "$2a$10$hash", nil, sec.TypeClient,
		StatusActive, "client_forms", nil, "en_us", "deepblue", "blue",
		int64(1), nil, now, now,
	)
}

func TestPostgresAccountRepository_FindByUsername(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   bool
		notFound  bool
	}{
		{
			name: "existing account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := addAccountRow(pgxmock.NewRows(accountRowColumns), "acc-1", "alice")
				mock.ExpectQuery(`SELECT(.|\n)+FROM accounts`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
		},
		{
			name: "unknown username maps to not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT(.|\n)+FROM accounts`).
					WithArgs("ghost").
					WillReturnError(errors.New("no rows in result set"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			username := "alice"
			if tt.wantErr {
				username = "ghost"
			}
			account, err := repo.FindByUsername(context.Background(), username)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice", account.Username)
				assert.Equal(t, sec.TypeClient, account.Type)
				assert.Equal(t, StatusActive, account.Status)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPostgresAccountRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT(.|\n)+FROM accounts`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(accountRowColumns))

	repo := NewAccountRepository(mock)
	_, err = repo.FindByID(context.Background(), "missing")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError")
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccountRepository_CountByCredentialVersion(t *testing.T) {
	tests := []struct {
		name    string
		version int64
		count   int
	}{
		{name: "current snapshot matches one row", version: 3, count: 1},
		{name: "stale snapshot matches nothing", version: 2, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(`SELECT count\(\*\)(.|\n)+FROM accounts`).
				WithArgs("acc-1", tt.version).
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tt.count))

			repo := NewAccountRepository(mock)
			count, err := repo.CountByCredentialVersion(context.Background(), "acc-1", tt.version)

			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresAccountRepository_UpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE accounts(.|\n)+credential_version = credential_version \+ 1`).
		WithArgs("acc-1", "$2a$10$newhash", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewAccountRepository(mock)
	err = repo.UpdatePassword(context.Background(), "acc-1", "$2a$10$newhash")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccountRepository_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE accounts(.|\n)+SET account_status`).
		WithArgs("acc-1", StatusDisabled, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewAccountRepository(mock)
	err = repo.UpdateStatus(context.Background(), "acc-1", StatusDisabled)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsRepository_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      Settings
	}{
		{
			name: "populated bag",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"setting_key", "setting_value"}).
					AddRow(SettingMaxFailedLoginAttempts, "3").
					AddRow(SettingNumFailedLoginAttempts, "2")
				mock.ExpectQuery(`SELECT setting_key, setting_value(.|\n)+FROM account_settings`).
					WithArgs("acc-1").
					WillReturnRows(rows)
			},
			want: Settings{
				SettingMaxFailedLoginAttempts: "3",
				SettingNumFailedLoginAttempts: "2",
			},
		},
		{
			name: "no overrides yields empty bag",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT setting_key, setting_value(.|\n)+FROM account_settings`).
					WithArgs("acc-1").
					WillReturnRows(pgxmock.NewRows([]string{"setting_key", "setting_value"}))
			},
			want: Settings{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewSettingsRepository(mock)
			got, err := repo.Get(context.Background(), "acc-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSettingsRepository_Set(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO account_settings(.|\n)+ON CONFLICT`).
		WithArgs("acc-1", SettingNumFailedLoginAttempts, "0").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSettingsRepository(mock)
	err = repo.Set(context.Background(), "acc-1", Settings{SettingNumFailedLoginAttempts: "0"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
