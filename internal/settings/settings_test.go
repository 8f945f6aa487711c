// Copyright (c) 2026 FormGrid. All rights reserved.

package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_TypedAccessors(t *testing.T) {
	tests := []struct {
		name          string
		bag           Defaults
		wantTheme     string
		wantSwatch    string
		wantLanguage  string
		wantThreshold int
	}{
		{
			name:          "empty bag uses fallbacks",
			bag:           Defaults{},
			wantTheme:     FallbackTheme,
			wantSwatch:    FallbackClientSwatch,
			wantLanguage:  FallbackLanguage,
			wantThreshold: 0,
		},
		{
			name: "configured installation",
			bag: Defaults{
				KeyDefaultTheme:                 "midnight",
				KeyDefaultClientSwatch:          "green",
				KeyDefaultLanguage:              "fr",
				KeyDefaultMaxFailedLoginAttempt: "5",
			},
			wantTheme:     "midnight",
			wantSwatch:    "green",
			wantLanguage:  "fr",
			wantThreshold: 5,
		},
		{
			name: "unparseable threshold falls back to zero",
			bag: Defaults{
				KeyDefaultMaxFailedLoginAttempt: "unlimited",
			},
			wantTheme:     FallbackTheme,
			wantSwatch:    FallbackClientSwatch,
			wantLanguage:  FallbackLanguage,
			wantThreshold: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTheme, tt.bag.Theme())
			assert.Equal(t, tt.wantSwatch, tt.bag.ClientSwatch())
			assert.Equal(t, tt.wantLanguage, tt.bag.Language())
			assert.Equal(t, tt.wantThreshold, tt.bag.MaxFailedLoginAttempts())
		})
	}
}

func TestPostgresRepository_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"setting_key", "setting_value"}).
		AddRow(KeyDefaultTheme, "midnight").
		AddRow(KeyDefaultMaxFailedLoginAttempt, "3")
	mock.ExpectQuery(`SELECT setting_key, setting_value(.|\n)+FROM app_settings`).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	defaults, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "midnight", defaults.Theme())
	assert.Equal(t, 3, defaults.MaxFailedLoginAttempts())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO app_settings(.|\n)+ON CONFLICT`).
		WithArgs(KeyDefaultMaxFailedLoginAttempt, "5").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	err = repo.Save(context.Background(), Defaults{KeyDefaultMaxFailedLoginAttempt: "5"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubRepository struct {
	defaults Defaults
	loads    int
	saves    int
}

func (s *stubRepository) Load(context.Context) (Defaults, error) {
	s.loads++
	return s.defaults, nil
}

func (s *stubRepository) Save(_ context.Context, values Defaults) error {
	s.saves++
	for key, value := range values {
		s.defaults[key] = value
	}
	return nil
}

func TestService_MaxFailedLoginAttempts(t *testing.T) {
	repo := &stubRepository{defaults: Defaults{KeyDefaultMaxFailedLoginAttempt: "4"}}
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	threshold, err := service.MaxFailedLoginAttempts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, threshold)
	assert.Equal(t, 1, repo.loads)
}

func TestService_Update(t *testing.T) {
	repo := &stubRepository{defaults: Defaults{}}
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := service.Update(context.Background(), Defaults{KeyDefaultTheme: "midnight"})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, "midnight", repo.defaults.Theme())
}
