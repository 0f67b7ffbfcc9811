// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finstack/finstack/internal/platform/constants"
	requestutil "github.com/finstack/finstack/internal/platform/request"
	"github.com/finstack/finstack/internal/platform/respond"
	"github.com/finstack/finstack/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points: registration, login,
// the current-user probe, and logout.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a JWT.
//   - POST /login    : Authenticates and returns a JWT.
//   - GET  /me       : Returns the profile behind the presented token.
//   - POST /logout   : Ends the session (requires authentication).
//
// /me deliberately skips the authentication middleware: the service parses
// the Authorization header itself so each header defect gets its own error
// code in the response.
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/me", handler.me)

	router.Group(func(protected chi.Router) {
		protected.Use(authenticate)
		protected.Post("/logout", handler.logout)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// register handles POST /api/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the token envelope.
//   - Writes HTTP 400 Bad Request if validation rules fail or passwords mismatch.
//   - Writes HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	// Prevent malformed data from reaching the service layer. Password
	// confirmation is NOT checked here: it is a business rule with its own
	// error code, owned by the service.
	validator := &validate.Validator{}
	validator.
		Required("first_name", input.FirstName).
		Required("last_name", input.LastName).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8)

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	envelope, err := handler.authService.Register(request.Context(), RegisterInput{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, envelope)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the token envelope.
//   - Writes HTTP 401 Unauthorized for bad credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("email", input.Email).
		Required("password", input.Password)

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	envelope, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		// 401 without leaking whether the email or the password was wrong.
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, envelope)
}

// me handles GET /api/auth/me requests.
//
// The raw Authorization header is passed through to the service, which owns
// the full extraction-verification-lookup pipeline.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.authService.GetCurrentUser(
		request.Context(),
		request.Header.Get(constants.HeaderAuthorization),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Info())
}

// logout handles POST /api/auth/logout requests.
//
// The route sits behind the authentication middleware, so claims are always
// present. Logout is informational for a stateless token scheme: the client
// discards the token, the server evicts the profile cache entry.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.authService.Logout(request.Context(), claims.Subject)

	respond.OK(writer, map[string]string{
		"message": "Logout successful",
	})
}
