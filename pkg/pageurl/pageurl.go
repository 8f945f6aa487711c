// Copyright (c) 2026 FormGrid. All rights reserved.

// Package pageurl constructs absolute redirect URLs for account pages.
//
// # Usage
//
// Every account carries a "login page" preference naming the page it lands on
// after authentication. Known page names map to fixed application paths; any
// other value is treated as a custom page and addressed by slug.
package pageurl

import (
	"net/url"

	"github.com/formgrid/formgrid/pkg/slug"
)

// Known page names and their application paths.
var knownPages = map[string]string{
	"admin_forms":    "/admin/forms",
	"admin_clients":  "/admin/clients",
	"admin_settings": "/admin/settings",
	"client_forms":   "/clients/forms",
	"client_account": "/clients/account",
}

// Construct builds the absolute URL for a named page, appending the given
// query parameters.
//
// # Parameters
//   - rootURL: The installation base URL, without a trailing slash.
//   - page: A known page name or a custom page title.
//   - params: Optional query parameters (may be nil).
func Construct(rootURL, page string, params map[string]string) string {
	path, known := knownPages[page]
	if !known {
		if page == "" {
			path = "/"
		} else {
			// Custom pages are addressed by their slugified title.
			path = "/pages/" + slug.From(page)
		}
	}

	target := rootURL + path
	if len(params) == 0 {
		return target
	}

	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	return target + "?" + query.Encode()
}

// LoginEntry builds the URL of the generic login entry point, optionally
// carrying a message flag in the query string.
func LoginEntry(rootURL, messageFlag string) string {
	if messageFlag == "" {
		return rootURL + "/"
	}
	query := url.Values{}
	query.Set("message", messageFlag)
	return rootURL + "/?" + query.Encode()
}

// Root returns the installation root URL followed by a slash.
func Root(rootURL string) string {
	return rootURL + "/"
}
