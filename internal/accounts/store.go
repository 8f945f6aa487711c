// Copyright (c) 2026 FormGrid. All rights reserved.

package accounts

import (
	"context"
)

// # Account Data Access

// AccountRepository defines the data access contract for account records.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		CountByCredentialVersion returns the number of accounts matching both
		the ID and the credential version. The Session Guard requires this to
		be exactly one for a session to stay valid.

		Parameters:
		  - context: context.Context
		  - id: string
		  - credentialVersion: int64

		Returns:
		  - int: Matching row count
		  - error: Database retrieval failures
	*/
	CountByCredentialVersion(context context.Context, id string, credentialVersion int64) (int, error)

	/*
		UpdateStatus sets the lifecycle status of the account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: AccountStatus

		Returns:
		  - error: Persistence failures
	*/
	UpdateStatus(context context.Context, id string, status AccountStatus) error

	/*
		UpdatePassword replaces the password hash, clears any temporary reset
		hash, and bumps the credential version in one statement.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, id string, newHash string) error

	/*
		TouchLastLoggedIn stamps the account's last successful login time.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLoggedIn(context context.Context, id string) error
}

// # Settings Bag Data Access

// SettingsRepository defines the data access contract for the per-account
// settings bag.
type SettingsRepository interface {

	/*
		Get returns the full settings bag for the account. A missing account
		yields an empty bag, not an error.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - Settings: Key-value bag
		  - error: Database retrieval failures
	*/
	Get(context context.Context, accountID string) (Settings, error)

	/*
		Set upserts the provided keys into the account's settings bag,
		leaving other keys untouched.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - values: Settings

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, accountID string, values Settings) error
}
