// Copyright (c) 2026 FormGrid. All rights reserved.

package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/formgrid/formgrid/pkg/convert"
)

// # Service Layer

// Service resolves accounts and their effective settings for the rest of the
// identity stack.
//
// It is the single place that merges per-account setting overrides with
// application-wide defaults, so callers never read the raw settings bag.
type Service struct {
	accountRepository  AccountRepository
	settingsRepository SettingsRepository
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	settingsRepo SettingsRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository:  accountRepo,
		settingsRepository: settingsRepo,
		logger:             logger,
	}
}

// # Account Resolution

/*
FindByUsername resolves an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: Not found or execution failures
*/
func (service *Service) FindByUsername(context context.Context, username string) (*Account, error) {
	account, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_find_by_username_failed: %w", err)
	}
	return account, nil
}

/*
FindByID resolves an account by its unique ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated account entity
  - error: Not found or execution failures
*/
func (service *Service) FindByID(context context.Context, id string) (*Account, error) {
	account, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_find_by_id_failed: %w", err)
	}
	return account, nil
}

/*
CountByCredentialVersion reports how many accounts match both ID and
credential version.

Description: Exposed for the Session Guard. A count of exactly one means the
session snapshot is still valid.

Parameters:
  - context: context.Context
  - id: string
  - credentialVersion: int64

Returns:
  - int: Matching row count
  - error: Execution failures
*/
func (service *Service) CountByCredentialVersion(context context.Context, id string, credentialVersion int64) (int, error) {
	count, err := service.accountRepository.CountByCredentialVersion(context, id, credentialVersion)
	if err != nil {
		return 0, fmt.Errorf("accounts_service_count_by_credential_failed: %w", err)
	}
	return count, nil
}

// # Settings Resolution

/*
AccountSettings returns the per-account settings bag.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - Settings: Key-value bag (empty when no overrides exist)
  - error: Execution failures
*/
func (service *Service) AccountSettings(context context.Context, accountID string) (Settings, error) {
	bag, err := service.settingsRepository.Get(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_settings_get_failed: %w", err)
	}
	return bag, nil
}

/*
SetAccountSettings upserts keys into the per-account settings bag.

Parameters:
  - context: context.Context
  - accountID: string
  - values: Settings

Returns:
  - error: Execution failures
*/
func (service *Service) SetAccountSettings(context context.Context, accountID string, values Settings) error {
	if err := service.settingsRepository.Set(context, accountID, values); err != nil {
		return fmt.Errorf("accounts_service_settings_set_failed: %w", err)
	}
	return nil
}

/*
EffectiveMaxFailedAttempts resolves the lockout threshold for an account.

Description: The per-account override wins when present and parseable;
otherwise the supplied application default applies. A threshold of zero
disables lockout tracking entirely.

Parameters:
  - context: context.Context
  - accountID: string
  - appDefault: int

Returns:
  - int: The effective threshold
  - error: Execution failures
*/
func (service *Service) EffectiveMaxFailedAttempts(context context.Context, accountID string, appDefault int) (int, error) {
	bag, err := service.settingsRepository.Get(context, accountID)
	if err != nil {
		return 0, fmt.Errorf("accounts_service_effective_threshold_failed: %w", err)
	}

	if raw, ok := bag[SettingMaxFailedLoginAttempts]; ok {
		return convert.ToIntD(raw, appDefault), nil
	}

	return appDefault, nil
}

/*
FailedLoginAttempts reads the current failed-login counter for an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - int: Current counter (zero when unset or unparseable)
  - error: Execution failures
*/
func (service *Service) FailedLoginAttempts(context context.Context, accountID string) (int, error) {
	bag, err := service.settingsRepository.Get(context, accountID)
	if err != nil {
		return 0, fmt.Errorf("accounts_service_failed_attempts_failed: %w", err)
	}

	if raw, ok := bag[SettingNumFailedLoginAttempts]; ok {
		return convert.ToInt(raw), nil
	}

	return 0, nil
}

/*
SetFailedLoginAttempts writes the failed-login counter for an account.

Parameters:
  - context: context.Context
  - accountID: string
  - count: int

Returns:
  - error: Execution failures
*/
func (service *Service) SetFailedLoginAttempts(context context.Context, accountID string, count int) error {
	values := Settings{SettingNumFailedLoginAttempts: fmt.Sprintf("%d", count)}
	if err := service.settingsRepository.Set(context, accountID, values); err != nil {
		return fmt.Errorf("accounts_service_set_failed_attempts_failed: %w", err)
	}
	return nil
}

// # Account Mutations

/*
Disable marks an account as disabled.

Description: Invoked by the lockout path once the failed-login threshold is
reached.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Disable(context context.Context, accountID string) error {
	if err := service.accountRepository.UpdateStatus(context, accountID, StatusDisabled); err != nil {
		return fmt.Errorf("accounts_service_disable_failed: %w", err)
	}

	service.logger.Warn("account_disabled", slog.String("account_id", accountID))

	return nil
}

/*
TouchLastLoggedIn stamps the last successful login time of an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) TouchLastLoggedIn(context context.Context, accountID string) error {
	if err := service.accountRepository.TouchLastLoggedIn(context, accountID); err != nil {
		return fmt.Errorf("accounts_service_touch_last_logged_in_failed: %w", err)
	}
	return nil
}

/*
ChangePassword installs a new password hash and invalidates the credential
snapshot carried by every live session for the account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Persistence failures
*/
func (service *Service) ChangePassword(context context.Context, accountID string, newHash string) error {
	if err := service.accountRepository.UpdatePassword(context, accountID, newHash); err != nil {
		return fmt.Errorf("accounts_service_change_password_failed: %w", err)
	}

	service.logger.Info("account_password_changed", slog.String("account_id", accountID))

	return nil
}
