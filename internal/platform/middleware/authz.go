// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package middleware

import (
	"net/http"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/constants"
	"github.com/finstack/finstack/internal/platform/ctxutil"
	"github.com/finstack/finstack/internal/platform/respond"
	"github.com/finstack/finstack/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenCodec], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// Authenticate gates a route group behind bearer-token authentication.
//
// # Two Outcomes
//
// Either the credential verifies and the handler runs with [*sec.Claims]
// attached to the request context, or the pipeline aborts with an
// authentication error response. There is no partial execution: the protected
// handler is never invoked on failure, and failure has no side effects.
//
// # Flow
//
//  1. Extract the bearer credential from the Authorization header.
//  2. Verify signature + expiry via [TokenVerifier].
//  3. Attach the decoded claims to the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Credential Extraction ──────────────────────────────────────
			tokenString, err := sec.ExtractBearer(request.Header.Get(constants.HeaderAuthorization))
			if err != nil {
				respond.Error(writer, request, bearerError(err))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Wrap(apperr.CodeInvalidToken, "Invalid token", err))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerError maps a [sec.ExtractBearer] failure onto its API error code.
func bearerError(err error) *apperr.AppError {
	switch err {
	case sec.ErrNoAuthHeader:
		return apperr.New(apperr.CodeMissingAuthHeader, "Missing Authorization header")
	case sec.ErrAuthHeaderNotASCII:
		return apperr.New(apperr.CodeInvalidAuthHeader, "Invalid Authorization header")
	case sec.ErrNotBearer:
		return apperr.New(apperr.CodeInvalidAuthFormat, "Invalid Authorization format")
	default:
		return apperr.Internal(err)
	}
}
