// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"context"

	"github.com/formgrid/formgrid/internal/accounts"
	"github.com/formgrid/formgrid/internal/platform/sec"
)

// # Extension Points
//
// Two fixed extension points replace the ad-hoc hook dispatch a plugin
// system would otherwise need. Filters are registered on the [Service] at
// startup and run in registration order.

// PreLoginFilter inspects (and may replace) the resolved account after the
// credential check succeeds but before the session is populated.
//
// Returning an error aborts the login; an [*AuthError] propagates its flag
// to the caller unchanged.
type PreLoginFilter interface {
	FilterAccount(ctx context.Context, account *accounts.Account) (*accounts.Account, error)
}

// BootOut is an authorization veto injected by an [AuthorizeFilter].
type BootOut struct {
	// Flag explains the veto to the login page.
	Flag Flag
}

// AuthorizeFilter runs at the top of every authorization check and may
// inject a boot-out decision before any built-in branch is evaluated.
//
// Returning (nil, nil) lets the check proceed normally.
type AuthorizeFilter interface {
	FilterAuthorization(ctx context.Context, session *Session, required sec.AccountType) (*BootOut, error)
}

// PreLoginFilterFunc adapts a function to the [PreLoginFilter] interface.
type PreLoginFilterFunc func(ctx context.Context, account *accounts.Account) (*accounts.Account, error)

// FilterAccount implements [PreLoginFilter].
func (f PreLoginFilterFunc) FilterAccount(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	return f(ctx, account)
}

// AuthorizeFilterFunc adapts a function to the [AuthorizeFilter] interface.
type AuthorizeFilterFunc func(ctx context.Context, session *Session, required sec.AccountType) (*BootOut, error)

// FilterAuthorization implements [AuthorizeFilter].
func (f AuthorizeFilterFunc) FilterAuthorization(ctx context.Context, session *Session, required sec.AccountType) (*BootOut, error) {
	return f(ctx, session, required)
}
