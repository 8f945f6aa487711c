// Copyright (c) 2026 FormGrid. All rights reserved.

// Package accounts defines the account entity and the Account Resolver —
// the single component allowed to read and write account records and their
// per-account settings bag.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the credential store.
// They have no dependencies on outer layers (HTTP, sessions); the auth
// service consumes them through the [Resolver].
package accounts

import (
	"time"

	"github.com/formgrid/formgrid/internal/platform/sec"
)

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	// StatusActive allows logins.
	StatusActive AccountStatus = "active"

	// StatusDisabled blocks logins; set manually or by the lockout policy.
	StatusDisabled AccountStatus = "disabled"

	// StatusPending blocks logins until an administrator approves the account.
	StatusPending AccountStatus = "pending"
)

// Account represents a provisioned FormGrid account (administrator or client).
//
// # Rules
//   - Username is unique.
//   - PasswordHash is a bcrypt hash; TempResetPasswordHash, when present,
//     authenticates identically but forces a password-change flow.
//   - CredentialVersion increases on every password change; sessions carry a
//     copy and become invalid the moment it moves.
//   - Accounts are provisioned externally; this subsystem never deletes them.
type Account struct {
	ID                    string          `json:"id"`
	Username              string          `json:"username"`
	PasswordHash          string          `json:"-"` // Explicitly omitted from JSON for security.
	TempResetPasswordHash *string         `json:"-"`
	Type                  sec.AccountType `json:"account_type"`
	Status                AccountStatus   `json:"account_status"`
	LoginPage             string          `json:"login_page"`
	LogoutURL             *string         `json:"logout_url,omitempty"`
	Language              string          `json:"ui_language"`
	Theme                 string          `json:"theme"`
	Swatch                string          `json:"swatch"`
	CredentialVersion     int64           `json:"-"`
	LastLoggedIn          *time.Time      `json:"last_logged_in,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// # Per-Account Settings Bag

// Settings bag keys. Values are persisted as strings; numeric values go
// through pkg/convert on the way out.
const (
	// SettingMaxFailedLoginAttempts overrides the global lockout threshold
	// for one account. Absent or zero means "use the global default".
	SettingMaxFailedLoginAttempts = "max_failed_login_attempts"

	// SettingNumFailedLoginAttempts is the running failed-login counter.
	// Reset to 0 on every successful client login.
	SettingNumFailedLoginAttempts = "num_failed_login_attempts"
)

// Settings is the per-account key-value bag.
type Settings map[string]string
