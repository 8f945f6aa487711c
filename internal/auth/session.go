// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/formgrid/formgrid/internal/platform/constants"
	"github.com/formgrid/formgrid/internal/platform/sec"
)

// # Session Keys

// Keys written into the account scope on successful login.
const (
	keyAccountID         = "account_id"
	keyAccountType       = "account_type"
	keyCredentialVersion = "credential_version"
	keyAuthenticated     = "authenticated"
	keyLoginPage         = "login_page"
	keyLogoutURL         = "logout_url"
	keyLanguage          = "ui_language"
	keyTheme             = "theme"
	keySwatch            = "swatch"
	keySubmissionID      = "submission_id"
)

// Keys written into the root scope (survive logout).
const (
	keyRootLanguage = "ui_language"
)

// # Session Handle

// Session is an explicit handle on one caller's scoped session state.
//
// Operations receive a Session rather than reading ambient request state, so
// every mutation is visible at the call site and tests can drive the flow
// with an in-memory store.
type Session struct {
	token string
	store SessionStore
	ttl   time.Duration
}

// Token returns the opaque session token (cookie value).
func (s *Session) Token() string { return s.token }

// Get reads one key from a scope. Missing keys read as "".
func (s *Session) Get(context context.Context, scope Scope, key string) (string, error) {
	return s.store.Get(context, s.token, scope, key)
}

// Set writes one key into a scope.
func (s *Session) Set(context context.Context, scope Scope, key, value string) error {
	return s.store.Set(context, s.token, scope, key, value, s.ttl)
}

// Exists reports whether a key is present in a scope.
func (s *Session) Exists(context context.Context, scope Scope, key string) (bool, error) {
	return s.store.Exists(context, s.token, scope, key)
}

// DestroyScope removes an entire scope.
func (s *Session) DestroyScope(context context.Context, scope Scope) error {
	return s.store.DestroyScope(context, s.token, scope)
}

// # Typed Accessors

// AccountID returns the logged-in account's ID, or "" when anonymous.
func (s *Session) AccountID(context context.Context) (string, error) {
	return s.Get(context, ScopeAccount, keyAccountID)
}

// AccountType returns the logged-in account's type, or "" when anonymous.
func (s *Session) AccountType(context context.Context) (sec.AccountType, error) {
	raw, err := s.Get(context, ScopeAccount, keyAccountType)
	return sec.AccountType(raw), err
}

// CredentialVersion returns the credential snapshot taken at login time.
func (s *Session) CredentialVersion(context context.Context) (int64, error) {
	raw, err := s.Get(context, ScopeAccount, keyCredentialVersion)
	if err != nil || raw == "" {
		return 0, err
	}

	version, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		return 0, fmt.Errorf("session_credential_version_corrupt: %w", parseErr)
	}
	return version, nil
}

// IsAuthenticated reports whether the session completed a login.
func (s *Session) IsAuthenticated(context context.Context) (bool, error) {
	raw, err := s.Get(context, ScopeAccount, keyAuthenticated)
	return raw == "true", err
}

// IsImpersonating reports whether a proxy login is in progress.
func (s *Session) IsImpersonating(context context.Context) (bool, error) {
	return s.Exists(context, ScopeProxy, keyAccountID)
}

// # Manager

// Manager mints and reopens sessions against a [SessionStore].
type Manager struct {
	store SessionStore
	ttl   time.Duration
}

// NewManager constructs a session [Manager].
func NewManager(store SessionStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

/*
Start mints a fresh session with a new random token.

Returns:
  - *Session: A handle whose token has never been issued before
  - error: Entropy failures
*/
func (manager *Manager) Start() (*Session, error) {
	token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("session_start_failed: %w", err)
	}
	return manager.Open(token), nil
}

// Open wraps an existing token (from the session cookie) into a handle. The
// token is not validated here; readers simply see empty scopes for unknown
// or expired tokens.
func (manager *Manager) Open(token string) *Session {
	return &Session{token: token, store: manager.store, ttl: manager.ttl}
}
