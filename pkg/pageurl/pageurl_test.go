// Copyright (c) 2026 FormGrid. All rights reserved.

package pageurl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formgrid/formgrid/pkg/pageurl"
)

/*
TestConstruct covers known pages, custom pages, and query parameters.
*/
func TestConstruct(t *testing.T) {
	const root = "https://forms.example.com"

	tests := []struct {
		name   string
		page   string
		params map[string]string
		want   string
	}{
		{"known_admin_page", "admin_forms", nil, root + "/admin/forms"},
		{"known_client_page", "client_forms", nil, root + "/clients/forms"},
		{"empty_page_falls_to_root", "", nil, root + "/"},
		{"custom_page_is_slugified", "Monthly Survey", nil, root + "/pages/monthly-survey"},
		{
			"params_are_encoded",
			"client_forms",
			map[string]string{"message": "change_temp_password"},
			root + "/clients/forms?message=change_temp_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageurl.Construct(root, tt.page, tt.params))
		})
	}
}

/*
TestLoginEntry verifies the message-flag redirect contract: a provided flag
always lands on the generic entry point with the flag in the query string.
*/
func TestLoginEntry(t *testing.T) {
	const root = "https://forms.example.com"

	assert.Equal(t, root+"/", pageurl.LoginEntry(root, ""))
	assert.Equal(t, root+"/?message=invalid_permissions",
		pageurl.LoginEntry(root, "invalid_permissions"))
}
