// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgrid/formgrid/internal/platform/apperr"
)

func TestToAppError_Mapping(t *testing.T) {
	tests := []struct {
		flag       Flag
		wantStatus int
	}{
		{flag: FlagNoPassword, wantStatus: http.StatusUnauthorized},
		{flag: FlagAccountDisabled, wantStatus: http.StatusUnauthorized},
		{flag: FlagWrongPassword, wantStatus: http.StatusUnauthorized},
		{flag: FlagNoAccountInSessions, wantStatus: http.StatusUnauthorized},
		{flag: FlagInvalidPermissions, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.flag), func(t *testing.T) {
			err := ToAppError(NewAuthError(tt.flag))

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, string(tt.flag), appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
		})
	}
}

func TestToAppError_PassThrough(t *testing.T) {
	plain := fmt.Errorf("store unreachable")

	assert.Equal(t, plain, ToAppError(plain), "unflagged errors pass through")
}

func TestFlagOf(t *testing.T) {
	flag, ok := FlagOf(fmt.Errorf("wrapped: %w", NewAuthError(FlagWrongPassword)))

	assert.True(t, ok)
	assert.Equal(t, FlagWrongPassword, flag)

	_, ok = FlagOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}
