// Copyright (c) 2026 FormGrid. All rights reserved.

package settings

import (
	"context"
	"fmt"
	"log/slog"
)

// # Service Layer

// Service exposes the application defaults to the rest of the identity stack.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Defaults returns the current application defaults bag.

Parameters:
  - context: context.Context

Returns:
  - Defaults: Key-value bag with typed accessors
  - error: Load failures
*/
func (service *Service) Defaults(context context.Context) (Defaults, error) {
	defaults, err := service.repository.Load(context)
	if err != nil {
		return nil, fmt.Errorf("settings_service_defaults_failed: %w", err)
	}
	return defaults, nil
}

/*
MaxFailedLoginAttempts returns the global lockout threshold.

Description: Zero disables failed-login tracking installation-wide (accounts
may still carry their own override).

Parameters:
  - context: context.Context

Returns:
  - int: The global threshold
  - error: Load failures
*/
func (service *Service) MaxFailedLoginAttempts(context context.Context) (int, error) {
	defaults, err := service.repository.Load(context)
	if err != nil {
		return 0, fmt.Errorf("settings_service_threshold_failed: %w", err)
	}
	return defaults.MaxFailedLoginAttempts(), nil
}

/*
Update upserts keys into the application defaults bag.

Parameters:
  - context: context.Context
  - values: Defaults

Returns:
  - error: Persistence failures
*/
func (service *Service) Update(context context.Context, values Defaults) error {
	if err := service.repository.Save(context, values); err != nil {
		return fmt.Errorf("settings_service_update_failed: %w", err)
	}

	service.logger.Info("app_settings_updated", slog.Int("keys", len(values)))

	return nil
}
