// Copyright (c) 2026 FormGrid. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgrid/formgrid/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password matches itself
and nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

/*
TestCheckPasswordHash_EmptyHash verifies that an absent stored hash never
matches. Accounts without a temporary reset password store an empty string,
and that column must not authenticate anything.
*/
func TestCheckPasswordHash_EmptyHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", ""))
	assert.False(t, sec.CheckPasswordHash("", ""))
}

/*
TestGenerateSecureToken verifies length and uniqueness of session tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // hex doubles the byte length

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestAccountType_AtLeast covers the three-type permission lattice.
*/
func TestAccountType_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		have     sec.AccountType
		required sec.AccountType
		want     bool
	}{
		{"admin_meets_admin", sec.TypeAdmin, sec.TypeAdmin, true},
		{"admin_meets_client", sec.TypeAdmin, sec.TypeClient, true},
		{"admin_meets_user", sec.TypeAdmin, sec.TypeUser, true},
		{"client_fails_admin", sec.TypeClient, sec.TypeAdmin, false},
		{"client_meets_client", sec.TypeClient, sec.TypeClient, true},
		{"user_fails_client", sec.TypeUser, sec.TypeClient, false},
		{"unknown_fails_user", sec.AccountType("ghost"), sec.TypeUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.AtLeast(tt.required))
		})
	}
}
