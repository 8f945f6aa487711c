// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # Session Scopes

// Scope partitions a session's key-value namespace.
//
// Scoped teardown is what lets logout destroy everything the application
// wrote for an account while leaving root-scope data (the anonymous UI
// language preference) intact.
type Scope string

const (
	// ScopeRoot survives logout; holds anonymous UI preferences.
	ScopeRoot Scope = "root"

	// ScopeAccount holds the authenticated account snapshot.
	ScopeAccount Scope = "account"

	// ScopeProxy holds the impersonating administrator's snapshot during a
	// proxy login.
	ScopeProxy Scope = "proxy"
)

// # Store Contract

// SessionStore abstracts the scoped key-value persistence behind a session
// token.
type SessionStore interface {

	/*
		Get reads one key from a session scope.

		Description: A missing key is not an error; it returns the empty
		string. Use Exists when empty values must be distinguished from
		absent ones.

		Parameters:
		  - context: context.Context
		  - token: string
		  - scope: Scope
		  - key: string

		Returns:
		  - string: The stored value, or "" when absent
		  - error: Connectivity failures
	*/
	Get(context context.Context, token string, scope Scope, key string) (string, error)

	/*
		Set writes one key into a session scope and refreshes the scope TTL.

		Parameters:
		  - context: context.Context
		  - token: string
		  - scope: Scope
		  - key: string
		  - value: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Set(context context.Context, token string, scope Scope, key string, value string, ttl time.Duration) error

	/*
		Exists reports whether a key is present in a session scope.

		Parameters:
		  - context: context.Context
		  - token: string
		  - scope: Scope
		  - key: string

		Returns:
		  - bool: Presence
		  - error: Connectivity failures
	*/
	Exists(context context.Context, token string, scope Scope, key string) (bool, error)

	/*
		DestroyScope removes an entire scope of a session.

		Parameters:
		  - context: context.Context
		  - token: string
		  - scope: Scope

		Returns:
		  - error: Deletion failures
	*/
	DestroyScope(context context.Context, token string, scope Scope) error
}
