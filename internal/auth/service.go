// Copyright (c) 2026 FormGrid. All rights reserved.

/*
Package auth implements session-backed authentication and authorization.

# Architecture

Three operations form the core:

  - Login: credential validation, lockout policy, session establishment.
  - CheckAuthorization: per-request re-validation against the credential
    store plus minimum-account-type gating.
  - Logout: scoped session teardown (or impersonation hand-back) and
    redirect resolution.

All three are pure with respect to HTTP: they return a [RedirectTarget] (or
a flagged error) and never touch the response writer. The thin handler in
http.go performs the actual redirects, which keeps every outcome unit
testable without a request in flight.

Sessions are opaque server-side tokens; the only credential material they
carry is an integer version number that the accounts store bumps on every
password change, which is what invalidates stale sessions.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/formgrid/formgrid/internal/accounts"
	"github.com/formgrid/formgrid/internal/platform/apperr"
	"github.com/formgrid/formgrid/internal/platform/constants"
	"github.com/formgrid/formgrid/internal/platform/metrics"
	"github.com/formgrid/formgrid/internal/platform/sec"
	"github.com/formgrid/formgrid/internal/settings"
	"github.com/formgrid/formgrid/pkg/pageurl"
	"github.com/formgrid/formgrid/pkg/pointer"
)

// RedirectTarget is the terminal outcome of a successful auth operation.
// The HTTP adapter turns it into a 302; other callers may inspect the URL.
type RedirectTarget struct {
	URL string `json:"url"`
}

// AuthzResult is the outcome of an authorization check.
type AuthzResult struct {
	// HasPermission is true when the request may proceed.
	HasPermission bool

	// Flag explains a denial ("" when permitted).
	Flag Flag

	// Redirect is set when the denial was auto-resolved into a logout.
	Redirect *RedirectTarget
}

// accountScopeKeys enumerates the snapshot written at login time. Kept in
// one place because impersonation stash/restore copies exactly these keys.
var accountScopeKeys = []string{
	keyAccountID,
	keyAccountType,
	keyCredentialVersion,
	keyAuthenticated,
	keyLoginPage,
	keyLogoutURL,
	keyLanguage,
	keyTheme,
	keySwatch,
}

// # Service

// Service orchestrates the authentication lifecycle.
type Service struct {
	accounts *accounts.Service
	settings *settings.Service
	sessions *Manager
	metrics  metrics.Recorder
	logger   *slog.Logger

	rootURL         string
	defaultLanguage string

	preLoginFilters  []PreLoginFilter
	authorizeFilters []AuthorizeFilter
}

// NewService constructs the auth [Service].
func NewService(
	accountsService *accounts.Service,
	settingsService *settings.Service,
	sessionManager *Manager,
	recorder metrics.Recorder,
	logger *slog.Logger,
	rootURL string,
	defaultLanguage string,
) *Service {
	return &Service{
		accounts:        accountsService,
		settings:        settingsService,
		sessions:        sessionManager,
		metrics:         recorder,
		logger:          logger,
		rootURL:         rootURL,
		defaultLanguage: defaultLanguage,
	}
}

// Sessions exposes the session manager for the HTTP adapter.
func (service *Service) Sessions() *Manager { return service.sessions }

// RegisterPreLoginFilter appends a pre-login extension point.
func (service *Service) RegisterPreLoginFilter(filter PreLoginFilter) {
	service.preLoginFilters = append(service.preLoginFilters, filter)
}

// RegisterAuthorizeFilter appends an authorization extension point.
func (service *Service) RegisterAuthorizeFilter(filter AuthorizeFilter) {
	service.authorizeFilters = append(service.authorizeFilters, filter)
}

// # Login

// LoginInput carries the credentials of a login attempt.
type LoginInput struct {
	Username string
	Password string

	// Proxy marks an administrator impersonating a client; proxy logins
	// bypass password and status checks and never mutate login bookkeeping.
	Proxy bool
}

/*
Login validates credentials and establishes the session on success.

Description: Validation order is fixed: missing password, disabled status,
pending status, unrecognized account, then the password check against both
the primary and the temporary-reset hash. Failed passwords drive the
per-client lockout counter; reaching the effective threshold disables the
account. A match on the temporary-reset hash succeeds but flags the
redirect with a forced password-change notice.

Parameters:
  - context: context.Context
  - session: *Session
  - input: LoginInput

Returns:
  - *RedirectTarget: The account's post-login landing page
  - error: An *AuthError carrying one flag of the closed set, or store failures
*/
func (service *Service) Login(context context.Context, session *Session, input LoginInput) (*RedirectTarget, error) {

	// Validation: missing password (proxy logins carry none by design)
	if !input.Proxy && input.Password == "" {
		return nil, service.failLogin(FlagNoPassword)
	}

	// Resolve the account; an unknown username is handled below so that
	// status checks only ever run against a real record
	var account *accounts.Account
	if input.Username != "" {
		found, err := service.accounts.FindByUsername(context, input.Username)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		account = found
	}

	// Validation: account status (skipped for proxy logins)
	if !input.Proxy && account != nil {
		if account.Status == accounts.StatusDisabled {
			return nil, service.failLogin(FlagAccountDisabled)
		}
		if account.Status == accounts.StatusPending {
			return nil, service.failLogin(FlagAccountPending)
		}
	}

	// Validation: unrecognized account
	if input.Username == "" || account == nil {
		return nil, service.failLogin(FlagAccountNotRecognized)
	}

	// Password check: the temporary-reset hash authenticates identically
	// but forces a password change on arrival
	usedTempPassword := false
	if !input.Proxy {
		switch {
		case sec.CheckPasswordHash(input.Password, account.PasswordHash):
			// Primary credential
		case account.TempResetPasswordHash != nil &&
			sec.CheckPasswordHash(input.Password, *account.TempResetPasswordHash):
			usedTempPassword = true
		default:
			return service.handleFailedPassword(context, account)
		}
	}

	// Extension point: filters may replace the snapshot or veto the login
	for _, filter := range service.preLoginFilters {
		filtered, err := filter.FilterAccount(context, account)
		if err != nil {
			return nil, err
		}
		account = filtered
	}

	// Proxy logins stash the acting administrator so logout can hand back
	if input.Proxy {
		if err := service.stashImpersonator(context, session); err != nil {
			return nil, err
		}
	}

	// Successful client logins clear the failure counter; administrators
	// are exempt from the counter entirely, proxy logins mutate nothing
	if !input.Proxy && account.Type == sec.TypeClient {
		if err := service.accounts.SetFailedLoginAttempts(context, account.ID, 0); err != nil {
			return nil, err
		}
	}

	if err := service.populateSession(context, session, account); err != nil {
		return nil, err
	}

	if !input.Proxy {
		if err := service.accounts.TouchLastLoggedIn(context, account.ID); err != nil {
			return nil, err
		}
	}

	params := map[string]string{}
	if usedTempPassword {
		params[constants.QueryParamMessage] = constants.MessageChangeTempPassword
	}

	service.metrics.RecordLoginSuccess(string(account.Type))
	service.logger.Info("login_succeeded",
		slog.String("account_id", account.ID),
		slog.String("account_type", string(account.Type)),
		slog.Bool("proxy", input.Proxy),
	)

	return &RedirectTarget{URL: pageurl.Construct(service.rootURL, account.LoginPage, params)}, nil
}

// failLogin records a validation failure and wraps its flag.
func (service *Service) failLogin(flag Flag) error {
	service.metrics.RecordLoginFailure(string(flag))
	return NewAuthError(flag)
}

// handleFailedPassword applies the lockout policy after a wrong password.
//
// Client accounts with a nonzero effective threshold (account override if
// present, else the global default) accumulate failures; reaching the
// threshold disables the account and resets the counter in the same call,
// so no disabled-but-nonzero-counter state is ever observable.
func (service *Service) handleFailedPassword(context context.Context, account *accounts.Account) (*RedirectTarget, error) {
	if account.Type != sec.TypeClient {
		return nil, service.failLogin(FlagWrongPassword)
	}

	globalDefault, err := service.settings.MaxFailedLoginAttempts(context)
	if err != nil {
		return nil, err
	}

	threshold, err := service.accounts.EffectiveMaxFailedAttempts(context, account.ID, globalDefault)
	if err != nil {
		return nil, err
	}

	// Zero threshold turns the lockout policy off
	if threshold <= 0 {
		return nil, service.failLogin(FlagWrongPassword)
	}

	count, err := service.accounts.FailedLoginAttempts(context, account.ID)
	if err != nil {
		return nil, err
	}
	count++

	if count >= threshold {
		if err := service.accounts.Disable(context, account.ID); err != nil {
			return nil, err
		}
		if err := service.accounts.SetFailedLoginAttempts(context, account.ID, 0); err != nil {
			return nil, err
		}

		service.metrics.RecordLockout()
		service.logger.Warn("account_locked_out",
			slog.String("account_id", account.ID),
			slog.Int("threshold", threshold),
		)

		return nil, service.failLogin(FlagAccountDisabled)
	}

	if err := service.accounts.SetFailedLoginAttempts(context, account.ID, count); err != nil {
		return nil, err
	}

	return nil, service.failLogin(FlagWrongPassword)
}

// populateSession writes the account snapshot into the session.
func (service *Service) populateSession(context context.Context, session *Session, account *accounts.Account) error {
	logoutURL := pointer.Val(account.LogoutURL)

	values := map[string]string{
		keyAccountID:         account.ID,
		keyAccountType:       string(account.Type),
		keyCredentialVersion: fmt.Sprintf("%d", account.CredentialVersion),
		keyAuthenticated:     "true",
		keyLoginPage:         account.LoginPage,
		keyLogoutURL:         logoutURL,
		keyLanguage:          account.Language,
		keyTheme:             account.Theme,
		keySwatch:            account.Swatch,
	}

	for key, value := range values {
		if err := session.Set(context, ScopeAccount, key, value); err != nil {
			return err
		}
	}

	// The UI language also lands in the root scope so it survives logout
	return session.Set(context, ScopeRoot, keyRootLanguage, account.Language)
}

// stashImpersonator copies the current account snapshot into the proxy
// scope before a proxy login overwrites it.
func (service *Service) stashImpersonator(context context.Context, session *Session) error {
	authenticated, err := session.IsAuthenticated(context)
	if err != nil {
		return err
	}
	if !authenticated {
		// Nothing to hand back to; logout will fall through to teardown
		return nil
	}

	for _, key := range accountScopeKeys {
		value, err := session.Get(context, ScopeAccount, key)
		if err != nil {
			return err
		}
		if err := session.Set(context, ScopeProxy, key, value); err != nil {
			return err
		}
	}

	return nil
}

// # Authorization

/*
CheckAuthorization re-validates the session and gates on a minimum account
type.

Description: Branch order is fixed: registered authorize filters first (a
filter may inject a boot-out), then the submission-account special case
(type "user" passes if either a submission ID or an account ID is present,
bypassing store re-validation), then the missing-identity check, the
account-type check, and finally re-validation against the credential store:
exactly one row must match the session's account ID and credential version.

With autoLogout the boot-out is resolved immediately into a logout and the
result carries the redirect; otherwise the caller decides.

Parameters:
  - context: context.Context
  - session: *Session
  - required: sec.AccountType
  - autoLogout: bool

Returns:
  - *AuthzResult: Permission verdict, flag, and optional logout redirect
  - error: Store failures only (denials are results, not errors)
*/
func (service *Service) CheckAuthorization(context context.Context, session *Session, required sec.AccountType, autoLogout bool) (*AuthzResult, error) {

	// Extension point: filters may veto before any built-in branch
	for _, filter := range service.authorizeFilters {
		bootOut, err := filter.FilterAuthorization(context, session, required)
		if err != nil {
			return nil, err
		}
		if bootOut != nil {
			return service.resolveBootOut(context, session, bootOut.Flag, autoLogout)
		}
	}

	accountType, err := session.AccountType(context)
	if err != nil {
		return nil, err
	}
	accountID, err := session.AccountID(context)
	if err != nil {
		return nil, err
	}

	// Submission accounts pass on presence alone and skip re-validation
	if accountType == sec.TypeUser {
		hasSubmission, err := session.Exists(context, ScopeAccount, keySubmissionID)
		if err != nil {
			return nil, err
		}
		if hasSubmission || accountID != "" {
			return &AuthzResult{HasPermission: true}, nil
		}
		return service.resolveBootOut(context, session, FlagNoAccountInSessions, autoLogout)
	}

	if accountID == "" || accountType == "" {
		return service.resolveBootOut(context, session, FlagNoAccountInSessions, autoLogout)
	}

	if !accountType.AtLeast(required) {
		return service.resolveBootOut(context, session, FlagInvalidPermissions, autoLogout)
	}

	// Re-validation: the session's credential snapshot must still match
	// exactly one account row
	version, err := session.CredentialVersion(context)
	if err != nil {
		return nil, err
	}
	count, err := service.accounts.CountByCredentialVersion(context, accountID, version)
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return service.resolveBootOut(context, session, FlagInvalidAccountInfo, autoLogout)
	}

	return &AuthzResult{HasPermission: true}, nil
}

// resolveBootOut records the denial and, with autoLogout, tears the session
// down and carries the logout redirect in the result.
func (service *Service) resolveBootOut(context context.Context, session *Session, flag Flag, autoLogout bool) (*AuthzResult, error) {
	service.metrics.RecordBootOut(string(flag))

	result := &AuthzResult{HasPermission: false, Flag: flag}
	if !autoLogout {
		return result, nil
	}

	redirect, err := service.Logout(context, session, flag)
	if err != nil {
		return nil, err
	}
	result.Redirect = redirect

	return result, nil
}

// # Logout

/*
Logout tears down the session (or ends an impersonation) and resolves the
redirect target.

Description: When a proxy login is in progress the call restores the
stashed administrator snapshot instead of destroying the session, and
redirects back to the client management page. Otherwise the account and
proxy scopes are destroyed (the root scope, holding the anonymous UI
language, survives) and the redirect precedence is: supplied flag → login
entry with the flag in the query string; account logout URL when
configured; application root.

Parameters:
  - context: context.Context
  - session: *Session
  - flag: Flag ("" when the logout is user-initiated)

Returns:
  - *RedirectTarget: Where the client goes next
  - error: Store failures
*/
func (service *Service) Logout(context context.Context, session *Session, flag Flag) (*RedirectTarget, error) {

	impersonating, err := session.IsImpersonating(context)
	if err != nil {
		return nil, err
	}
	if impersonating {
		return service.endImpersonation(context, session)
	}

	// The custom logout URL must be read before teardown
	logoutURL, err := session.Get(context, ScopeAccount, keyLogoutURL)
	if err != nil {
		return nil, err
	}

	if err := session.DestroyScope(context, ScopeAccount); err != nil {
		return nil, err
	}
	if err := session.DestroyScope(context, ScopeProxy); err != nil {
		return nil, err
	}

	service.metrics.RecordLogout()

	switch {
	case flag != "":
		return &RedirectTarget{URL: pageurl.LoginEntry(service.rootURL, string(flag))}, nil
	case logoutURL != "":
		return &RedirectTarget{URL: logoutURL}, nil
	default:
		return &RedirectTarget{URL: pageurl.Root(service.rootURL)}, nil
	}
}

// endImpersonation restores the stashed administrator snapshot and hands
// control back without destroying the underlying session.
func (service *Service) endImpersonation(context context.Context, session *Session) (*RedirectTarget, error) {
	for _, key := range accountScopeKeys {
		value, err := session.Get(context, ScopeProxy, key)
		if err != nil {
			return nil, err
		}
		if err := session.Set(context, ScopeAccount, key, value); err != nil {
			return nil, err
		}
	}

	if err := session.DestroyScope(context, ScopeProxy); err != nil {
		return nil, err
	}

	service.logger.Info("impersonation_ended", slog.String("token", session.Token()))

	return &RedirectTarget{URL: pageurl.Construct(service.rootURL, "admin_clients", nil)}, nil
}

// # Session Views

// UserView is the per-request view-model of the current caller.
type UserView struct {
	IsLoggedIn      bool            `json:"is_logged_in"`
	IsImpersonating bool            `json:"is_impersonating"`
	AccountID       string          `json:"account_id,omitempty"`
	AccountType     sec.AccountType `json:"account_type,omitempty"`
	Language        string          `json:"ui_language"`
	Theme           string          `json:"theme"`
	Swatch          string          `json:"swatch"`
}

/*
CurrentUser builds the caller's view-model.

Description: Logged-out callers get the UI language remembered in the root
session scope (else the configured default) and the theme/swatch from the
application defaults. Logged-in callers read their account snapshot.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - *UserView: The resolved view-model
  - error: Store failures
*/
func (service *Service) CurrentUser(context context.Context, session *Session) (*UserView, error) {

	authenticated, err := session.IsAuthenticated(context)
	if err != nil {
		return nil, err
	}

	if !authenticated {
		language, err := session.Get(context, ScopeRoot, keyRootLanguage)
		if err != nil {
			return nil, err
		}
		if language == "" {
			language = service.defaultLanguage
		}

		defaults, err := service.settings.Defaults(context)
		if err != nil {
			return nil, err
		}

		return &UserView{
			Language: language,
			Theme:    defaults.Theme(),
			Swatch:   defaults.ClientSwatch(),
		}, nil
	}

	accountID, err := session.AccountID(context)
	if err != nil {
		return nil, err
	}
	accountType, err := session.AccountType(context)
	if err != nil {
		return nil, err
	}
	impersonating, err := session.IsImpersonating(context)
	if err != nil {
		return nil, err
	}
	language, err := session.Get(context, ScopeAccount, keyLanguage)
	if err != nil {
		return nil, err
	}
	theme, err := session.Get(context, ScopeAccount, keyTheme)
	if err != nil {
		return nil, err
	}
	swatch, err := session.Get(context, ScopeAccount, keySwatch)
	if err != nil {
		return nil, err
	}

	return &UserView{
		IsLoggedIn:      true,
		IsImpersonating: impersonating,
		AccountID:       accountID,
		AccountType:     accountType,
		Language:        language,
		Theme:           theme,
		Swatch:          swatch,
	}, nil
}

/*
ResolveIdentity turns a session token into a request identity for the
session-loader middleware.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.Identity: nil when the token is unknown, expired, or anonymous
  - error: Store failures
*/
func (service *Service) ResolveIdentity(context context.Context, token string) (*sec.Identity, error) {
	session := service.sessions.Open(token)

	authenticated, err := session.IsAuthenticated(context)
	if err != nil {
		return nil, err
	}
	if !authenticated {
		return nil, nil
	}

	accountID, err := session.AccountID(context)
	if err != nil {
		return nil, err
	}
	accountType, err := session.AccountType(context)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		SessionToken: token,
		AccountID:    accountID,
		AccountType:  accountType,
	}, nil
}

// # Password Change

/*
ChangePassword installs a new password for the logged-in account and
refreshes the session's credential snapshot.

Description: The current password must match either the primary or the
temporary-reset hash (the latter completes the forced-change flow). The
store bumps the credential version, which boots every OTHER live session
for this account on its next guarded request; this session re-snapshots
the new version and stays valid.

Parameters:
  - context: context.Context
  - session: *Session
  - currentPassword: string
  - newPassword: string

Returns:
  - error: An *AuthError on a wrong current password, or store failures
*/
func (service *Service) ChangePassword(context context.Context, session *Session, currentPassword, newPassword string) error {

	authenticated, err := session.IsAuthenticated(context)
	if err != nil {
		return err
	}
	if !authenticated {
		return NewAuthError(FlagNoAccountInSessions)
	}

	accountID, err := session.AccountID(context)
	if err != nil {
		return err
	}

	account, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return err
	}

	matches := sec.CheckPasswordHash(currentPassword, account.PasswordHash) ||
		(account.TempResetPasswordHash != nil &&
			sec.CheckPasswordHash(currentPassword, *account.TempResetPasswordHash))
	if !matches {
		return NewAuthError(FlagWrongPassword)
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := service.accounts.ChangePassword(context, accountID, newHash); err != nil {
		return err
	}

	// Re-snapshot the bumped version so this session survives the change
	updated, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return err
	}
	return session.Set(context, ScopeAccount, keyCredentialVersion,
		fmt.Sprintf("%d", updated.CredentialVersion))
}

// isNotFound reports whether err is the platform not-found error.
func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.Code == "NOT_FOUND"
}
