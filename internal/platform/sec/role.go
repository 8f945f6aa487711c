// Copyright (c) 2026 FormGrid. All rights reserved.

package sec

// # Account Types

// AccountType represents the authorization level granted to an account.
//
// FormGrid has exactly three account types. "user" is the submission-account
// type: a person who authenticated through a form submission rather than a
// provisioned account, and who may only view pages whose minimum type is
// "user".
type AccountType string

const (
	// Unrestricted system access
	TypeAdmin AccountType = "admin"

	// A provisioned client account managing its own forms
	TypeClient AccountType = "client"

	// A submission account (lowest privilege)
	TypeUser AccountType = "user"
)

// # Type Hierarchy

// AtLeast checks if the account type meets or exceeds the required minimum type.
//
// Feeding TypeClient lets administrators and clients through; TypeAdmin lets
// only administrators through.
func (t AccountType) AtLeast(required AccountType) bool {
	return t.level() >= required.level()
}

// level maps an account type to a numeric hierarchy level for comparison logic.
func (t AccountType) level() int {

	// Linear scale (10-30) allows for future intermediate types
	switch t {
	case TypeAdmin:
		return 30
	case TypeClient:
		return 20
	case TypeUser:
		return 10
	default:
		return 0
	}
}
