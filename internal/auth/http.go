// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formgrid/formgrid/internal/platform/constants"
	requestutil "github.com/formgrid/formgrid/internal/platform/request"
	"github.com/formgrid/formgrid/internal/platform/respond"
	"github.com/formgrid/formgrid/internal/platform/sec"
	"github.com/formgrid/formgrid/internal/platform/validate"
)

// # Definitions & Constructors

// Field identifiers for request validation.
// A missing password is deliberately NOT a validation error here: the
// service maps it onto the no_password flag of the closed set.
const (
	fieldUsername        = "username"
	fieldCurrentPassword = "current_password"
	fieldNewPassword     = "new_password"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// This is the thin adapter the redesign calls for: the service returns
// redirect targets and flagged errors, and only this layer turns them into
// 302 responses, cookies, and error envelopes.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the auth endpoints.
//
// # Endpoints
//   - POST /login           : Authenticates and redirects to the landing page.
//   - POST /logout          : Tears down the session and redirects.
//   - GET  /session         : Returns the caller's view-model.
//   - POST /change-password : Rotates the logged-in account's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.session)

	router.Group(func(r chi.Router) {
		r.Use(handler.RequireAccountType(sec.TypeClient))
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// AdminRoutes returns the administrator-only endpoints.
//
// # Endpoints
//   - POST /clients/{username}/impersonate : Starts a proxy login.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(handler.RequireAccountType(sec.TypeAdmin))
	router.Post("/clients/{username}/impersonate", handler.impersonate)

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// # Session Plumbing

// openSession wraps the request's session cookie into a [*Session], minting
// a fresh session (and setting the cookie) when none exists.
func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request) (*Session, error) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err == nil && cookie.Value != "" {
		return handler.authService.Sessions().Open(cookie.Value), nil
	}

	session, err := handler.authService.Sessions().Start()
	if err != nil {
		return nil, err
	}

	setSessionCookie(writer, session.Token(), int(constants.DefaultSessionTTL.Seconds()))
	return session, nil
}

func setSessionCookie(writer http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

/*
Login authenticates a caller and redirects to the account's landing page.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 302: Redirect to the landing page (temporary-password logins carry a
    forced-change flag in the query string)
  - 400: ErrInvalidJSON: Malformed body
  - 401: One flag of the closed set (wrong password, disabled, pending, ...)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldUsername, input.Username)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.openSession(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	redirect, err := handler.authService.Login(request.Context(), session, LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.Redirect(writer, request, redirect.URL)
}

/*
Logout tears down the caller's session and redirects.

POST /api/v1/auth/logout

Description: Ends an impersonation (restoring the administrator session)
when one is in progress; otherwise destroys the application session scopes
and clears the cookie. An optional `message` query parameter forces the
redirect to the login entry point carrying that flag.

Response:
  - 302: Redirect per the logout precedence rules
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		// Nothing to tear down
		respond.Redirect(writer, request, "/")
		return
	}

	session := handler.authService.Sessions().Open(cookie.Value)
	flag := Flag(request.URL.Query().Get(constants.QueryParamMessage))

	redirect, err := handler.authService.Logout(request.Context(), session, flag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// An impersonation hand-back keeps the session (and its cookie) alive
	stillAuthenticated, checkErr := session.IsAuthenticated(request.Context())
	if checkErr == nil && !stillAuthenticated {
		setSessionCookie(writer, "", -1)
	}

	respond.Redirect(writer, request, redirect.URL)
}

/*
Session returns the caller's view-model.

GET /api/v1/auth/session

Response:
  - 200: UserView: Identity and UI preferences (logged-out callers get the
    installation defaults)
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.openSession(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.authService.CurrentUser(request.Context(), session)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
ChangePassword rotates the logged-in account's password.

POST /api/v1/auth/change-password

Description: Completes the forced-change flow after a temporary-password
login. Every other live session of the account is invalidated on its next
guarded request.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 204: Password rotated
  - 401: Wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldCurrentPassword, input.CurrentPassword).
		Required(fieldNewPassword, input.NewPassword).
		MinLen(fieldNewPassword, input.NewPassword, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The guard middleware already re-validated; the identity carries the
	// session token of the authenticated caller.
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	session := handler.authService.Sessions().Open(identity.SessionToken)

	if err := handler.authService.ChangePassword(request.Context(), session,
		input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.NoContent(writer)
}

/*
Impersonate starts a proxy login into a client account.

POST /api/v1/admin/clients/{username}/impersonate

Description: Administrator-only. The acting administrator's session
snapshot is stashed so that the next logout hands control back instead of
ending the session. No password or status checks run against the target.

Response:
  - 302: Redirect to the client's landing page
  - 401: Unknown target account
*/
func (handler *Handler) impersonate(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	validator := &validate.Validator{}
	validator.Required(fieldUsername, username)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A proxy login rides the administrator's OWN session: the snapshot
	// stash/restore cycle depends on it. Never mint a fresh session here.
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	session := handler.authService.Sessions().Open(identity.SessionToken)

	redirect, err := handler.authService.Login(request.Context(), session, LoginInput{
		Username: username,
		Proxy:    true,
	})
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.Redirect(writer, request, redirect.URL)
}

// # Guard Middleware

// RequireAccountType returns middleware enforcing a minimum account type.
//
// Boot-outs are auto-resolved: the session is torn down and the response
// is a redirect to the login entry point carrying the denial flag.
func (handler *Handler) RequireAccountType(required sec.AccountType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Prefer the identity the session loader already resolved;
			// fall back to the raw cookie for routes mounted outside it.
			token := ""
			if identity := requestutil.Identity(request); identity != nil {
				token = identity.SessionToken
			} else if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
				token = cookie.Value
			}
			session := handler.authService.Sessions().Open(token)

			result, err := handler.authService.CheckAuthorization(
				request.Context(), session, required, true)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !result.HasPermission {
				respond.Redirect(writer, request, result.Redirect.URL)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
