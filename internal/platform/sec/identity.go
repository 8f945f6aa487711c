// Copyright (c) 2026 FormGrid. All rights reserved.

package sec

// Identity describes the session-resolved caller of the current request.
//
// # Why a platform type?
//
// The session-loader middleware resolves the identity once per request and
// stores it in the context; both the platform layer (logging) and the domain
// layer (handlers) read it. Keeping it here avoids an import cycle between
// middleware and the auth domain.
type Identity struct {
	// SessionToken is the opaque token of the backing session.
	SessionToken string

	// AccountID is empty for anonymous requests.
	AccountID string

	// AccountType is the session's account type ("" when anonymous).
	AccountType AccountType
}

// IsAuthenticated reports whether the identity is backed by a logged-in session.
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.AccountID != ""
}
