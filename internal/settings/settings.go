// Copyright (c) 2026 FormGrid. All rights reserved.

/*
Package settings manages application-wide default settings.

These are the installation-level knobs an administrator tunes once: the
default UI theme and swatch handed to new client accounts, the default
language, and the global failed-login lockout threshold that applies to any
client account without a per-account override.

The bag is tiny and read on nearly every login, so the Postgres store is
fronted by a Redis cache-aside layer.
*/
package settings

import (
	"github.com/formgrid/formgrid/pkg/convert"
)

// Well-known keys in the application defaults bag.
const (
	KeyDefaultTheme                 = "default_theme"
	KeyDefaultClientSwatch          = "default_client_swatch"
	KeyDefaultLanguage              = "default_language"
	KeyDefaultMaxFailedLoginAttempt = "default_max_failed_login_attempts"
)

// Fallbacks when the installation has never been configured.
const (
	FallbackTheme                  = "deepblue"
	FallbackClientSwatch           = "blue"
	FallbackLanguage               = "en_us"
	FallbackMaxFailedLoginAttempts = 0 // lockout tracking off until configured
)

// Defaults is the application-wide settings bag, keyed by setting name.
type Defaults map[string]string

// Theme returns the default UI theme.
func (d Defaults) Theme() string {
	if v, ok := d[KeyDefaultTheme]; ok && v != "" {
		return v
	}
	return FallbackTheme
}

// ClientSwatch returns the default client color swatch.
func (d Defaults) ClientSwatch() string {
	if v, ok := d[KeyDefaultClientSwatch]; ok && v != "" {
		return v
	}
	return FallbackClientSwatch
}

// Language returns the default UI language code.
func (d Defaults) Language() string {
	if v, ok := d[KeyDefaultLanguage]; ok && v != "" {
		return v
	}
	return FallbackLanguage
}

// MaxFailedLoginAttempts returns the global lockout threshold. Zero means
// failed-login tracking is disabled.
func (d Defaults) MaxFailedLoginAttempts() int {
	if v, ok := d[KeyDefaultMaxFailedLoginAttempt]; ok {
		return convert.ToIntD(v, FallbackMaxFailedLoginAttempts)
	}
	return FallbackMaxFailedLoginAttempts
}
