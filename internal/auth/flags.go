// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"errors"
	"net/http"

	"github.com/formgrid/formgrid/internal/platform/apperr"
)

// # Validation Flags

// Flag is one of the closed set of authentication/authorization outcomes.
//
// Flags are machine-readable and stable: they travel to the login page as a
// `message` query parameter and to API clients inside the error envelope,
// never as free-form strings.
type Flag string

const (
	// Login failures
	FlagNoPassword           Flag = "no_password"
	FlagAccountDisabled      Flag = "account_disabled"
	FlagAccountPending       Flag = "account_pending"
	FlagAccountNotRecognized Flag = "account_not_recognized"
	FlagWrongPassword        Flag = "wrong_password"

	// Authorization boot-outs
	FlagNoAccountInSessions Flag = "no_account_in_sessions"
	FlagInvalidPermissions  Flag = "invalid_permissions"
	FlagInvalidAccountInfo  Flag = "invalid_account_info"
)

// # Typed Error

// AuthError carries a [Flag] through the error chain.
//
// The HTTP adapter unwraps it into an [apperr.AppError] so API clients see
// the standard envelope with the flag as the machine-readable code.
type AuthError struct {
	Flag Flag
}

// Error implements the error interface.
func (e *AuthError) Error() string { return string(e.Flag) }

// NewAuthError wraps a flag into an error value.
func NewAuthError(flag Flag) *AuthError {
	return &AuthError{Flag: flag}
}

// FlagOf extracts the [Flag] from an error chain. The boolean is false when
// the error does not carry a flag.
func FlagOf(err error) (Flag, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Flag, true
	}
	return "", false
}

// ToAppError maps an [AuthError] onto the platform error envelope. Login
// failures are 401s; permission denials are 403s. Errors without a flag pass
// through unchanged.
func ToAppError(err error) error {
	flag, ok := FlagOf(err)
	if !ok {
		return err
	}

	status := http.StatusUnauthorized
	if flag == FlagInvalidPermissions {
		status = http.StatusForbidden
	}

	return &apperr.AppError{
		Code:       string(flag),
		Message:    messageFor(flag),
		HTTPStatus: status,
		Cause:      err,
	}
}

// messageFor returns the client-safe description of a flag.
func messageFor(flag Flag) string {
	switch flag {
	case FlagNoPassword:
		return "Please enter your password."
	case FlagAccountDisabled:
		return "Your account has been disabled."
	case FlagAccountPending:
		return "Your account has not been activated yet."
	case FlagAccountNotRecognized:
		return "That account is not recognized."
	case FlagWrongPassword:
		return "The password you entered is incorrect."
	case FlagNoAccountInSessions:
		return "Your session has expired. Please log in again."
	case FlagInvalidPermissions:
		return "You do not have permission to access that page."
	case FlagInvalidAccountInfo:
		return "Your account information could not be verified. Please log in again."
	default:
		return "Authentication failed."
	}
}
