// Copyright (c) 2026 FormGrid. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/formgrid/formgrid/internal/platform/constants"
	"github.com/formgrid/formgrid/internal/platform/ctxutil"
	"github.com/formgrid/formgrid/internal/platform/sec"
)

// SessionIdentityFunc resolves an opaque session token into a request identity.
//
// # Why a function type?
//
// Taking a function here decouples the middleware from the session manager
// implementation, allowing mocks during unit testing. It returns (nil, nil)
// when the session is unknown or expired; an error means the store is
// unreachable.
type SessionIdentityFunc func(ctx context.Context, token string) (*sec.Identity, error)

// SessionLoader resolves the session cookie into a [*sec.Identity] on the
// request context.
//
// # Flow
//  1. Check for the session cookie. If absent, the request proceeds anonymous.
//  2. Resolve the token via the session manager.
//  3. Inject the identity into the request context for downstream use.
//
// Unknown or expired tokens do NOT fail the request here; the page-level
// Session Guard decides what an unauthenticated caller may see.
func SessionLoader(resolve SessionIdentityFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				// Anonymous access
				next.ServeHTTP(writer, request)
				return
			}

			identity, err := resolve(request.Context(), cookie.Value)
			if err != nil || identity == nil {
				// Treat resolution failures as anonymous; the guard boots out.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
