// Copyright (c) 2026 FormGrid. All rights reserved.

package accounts

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgrid/formgrid/internal/platform/apperr"
	"github.com/formgrid/formgrid/internal/platform/sec"
)

// # Fakes

type fakeAccountRepository struct {
	accounts map[string]*Account // keyed by ID
}

func newFakeAccountRepository(accounts ...*Account) *fakeAccountRepository {
	repo := &fakeAccountRepository{accounts: map[string]*Account{}}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (f *fakeAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeAccountRepository) CountByCredentialVersion(_ context.Context, id string, version int64) (int, error) {
	account, ok := f.accounts[id]
	if !ok || account.CredentialVersion != version {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeAccountRepository) UpdateStatus(_ context.Context, id string, status AccountStatus) error {
	account, ok := f.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	account.Status = status
	return nil
}

func (f *fakeAccountRepository) UpdatePassword(_ context.Context, id string, newHash string) error {
	account, ok := f.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	account.PasswordHash = newHash
	account.TempResetPasswordHash = nil
	account.CredentialVersion++
	return nil
}

func (f *fakeAccountRepository) TouchLastLoggedIn(_ context.Context, _ string) error {
	return nil
}

type fakeSettingsRepository struct {
	bags map[string]Settings
}

func newFakeSettingsRepository() *fakeSettingsRepository {
	return &fakeSettingsRepository{bags: map[string]Settings{}}
}

func (f *fakeSettingsRepository) Get(_ context.Context, accountID string) (Settings, error) {
	bag, ok := f.bags[accountID]
	if !ok {
		return Settings{}, nil
	}
	copied := Settings{}
	for key, value := range bag {
		copied[key] = value
	}
	return copied, nil
}

func (f *fakeSettingsRepository) Set(_ context.Context, accountID string, values Settings) error {
	bag, ok := f.bags[accountID]
	if !ok {
		bag = Settings{}
		f.bags[accountID] = bag
	}
	for key, value := range values {
		bag[key] = value
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clientAccount(id, username string) *Account {
	return &Account{
		ID:                id,
		Username:          username,
		PasswordHash:      "$2a$10$hash",
		Type:              sec.TypeClient,
		Status:            StatusActive,
		CredentialVersion: 1,
	}
}

// # Tests

func TestService_EffectiveMaxFailedAttempts(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		hasKey     bool
		appDefault int
		want       int
	}{
		{name: "no override uses app default", appDefault: 5, want: 5},
		{name: "account override wins", hasKey: true, override: "3", appDefault: 5, want: 3},
		{name: "zero override disables tracking", hasKey: true, override: "0", appDefault: 5, want: 0},
		{name: "unparseable override falls back", hasKey: true, override: "many", appDefault: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsRepo := newFakeSettingsRepository()
			if tt.hasKey {
				err := settingsRepo.Set(context.Background(), "acc-1", Settings{
					SettingMaxFailedLoginAttempts: tt.override,
				})
				require.NoError(t, err)
			}

			service := NewService(newFakeAccountRepository(), settingsRepo, testLogger())

			got, err := service.EffectiveMaxFailedAttempts(context.Background(), "acc-1", tt.appDefault)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_FailedLoginAttempts_RoundTrip(t *testing.T) {
	service := NewService(newFakeAccountRepository(), newFakeSettingsRepository(), testLogger())

	count, err := service.FailedLoginAttempts(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "unset counter reads as zero")

	require.NoError(t, service.SetFailedLoginAttempts(context.Background(), "acc-1", 2))

	count, err = service.FailedLoginAttempts(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_ChangePassword_BumpsCredentialVersion(t *testing.T) {
	account := clientAccount("acc-1", "alice")
	temp := "$2a$10$temp"
	account.TempResetPasswordHash = &temp

	repo := newFakeAccountRepository(account)
	service := NewService(repo, newFakeSettingsRepository(), testLogger())

	// A session minted now snapshots version 1.
	count, err := service.CountByCredentialVersion(context.Background(), "acc-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, service.ChangePassword(context.Background(), "acc-1", "$2a$10$newhash"))

	// The old snapshot no longer matches; the new one does.
	count, err = service.CountByCredentialVersion(context.Background(), "acc-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	updated, err := service.FindByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhash", updated.PasswordHash)
	assert.Nil(t, updated.TempResetPasswordHash, "temp reset hash cleared on password change")
	assert.Equal(t, int64(2), updated.CredentialVersion)
}

func TestService_Disable(t *testing.T) {
	repo := newFakeAccountRepository(clientAccount("acc-1", "alice"))
	service := NewService(repo, newFakeSettingsRepository(), testLogger())

	require.NoError(t, service.Disable(context.Background(), "acc-1"))

	account, err := service.FindByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, account.Status)
}

func TestService_FindByUsername_NotFound(t *testing.T) {
	service := NewService(newFakeAccountRepository(), newFakeSettingsRepository(), testLogger())

	_, err := service.FindByUsername(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperr.IsAppError(err))
}
