// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package auth implements the authentication use cases for the Finstack platform.
//
// # Architecture
//
// The service orchestrates the credential hasher, the token codec, and the
// user repository through interfaces. It is technology-agnostic and does not
// know about HTTP or SQL — with one deliberate exception: GetCurrentUser
// accepts the raw Authorization header value, because parsing that header is
// part of the authentication contract itself (its failure modes map to
// distinct error codes).
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/ctxutil"
	"github.com/finstack/finstack/internal/platform/dberr"
	"github.com/finstack/finstack/internal/platform/sec"
)

// TokenProvider defines the contract for issuing and verifying access tokens.
//
// [sec.TokenCodec] is the production implementation.
type TokenProvider interface {
	// Issue creates a signed JWT string for the given user.
	Issue(userID, email string, timeToLive time.Duration) (string, error)

	// Verify parses and validates a signed JWT string.
	Verify(tokenString string) (*sec.Claims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	userCache      UserCache
	tokenProvider  TokenProvider
	tokenTTL       time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
//
// tokenTTL is injected from configuration: the service never reads the
// environment, so tests can pin any expiry they need.
func NewService(
	userRepo UserRepository,
	userCache UserCache,
	tokenProv TokenProvider,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository: userRepo,
		userCache:      userCache,
		tokenProvider:  tokenProv,
		tokenTTL:       tokenTTL,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates, hashes, and persists a brand new user account, then
// immediately issues an access token so the client is logged in.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A [*TokenEnvelope] carrying the signed token and the public profile.
//   - PASSWORD_MISMATCH if the confirmation does not match.
//   - EMAIL_EXISTS if the email is already registered.
//
// # Business Rules
//   - Nothing is persisted unless every earlier step succeeded.
//   - Emails must be unique (checked up front AND enforced by the database,
//     so a concurrent duplicate registration still resolves to EMAIL_EXISTS).
func (service *Service) Register(context context.Context, input RegisterInput) (*TokenEnvelope, error) {
	// ── 1. Confirmation Check ─────────────────────────────────────────────

	// Fails before any I/O: a mismatch means the user mistyped one of the
	// two password fields.
	if input.Password != input.ConfirmPassword {
		return nil, apperr.New(apperr.CodePasswordMismatch, "Passwords do not match")
	}

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	_, err := service.userRepository.FindByEmail(context, input.Email)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.CodeEmailExists, "Email already exists")
	case !dberr.IsNotFound(err):
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeHash, "Password hashing failed", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	user := &User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		// The unique index closes the race between the check in step 2 and
		// this insert.
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeEmailExists, "Email already exists")
		}
		return nil, dberr.Classify(err, apperr.CodeUserCreation, "Failed to create user")
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	return service.issueEnvelope(user)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates user credentials and issues an access token.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains Email and plain-text Password.
//
// # Returns
//   - A [*TokenEnvelope] carrying the signed token and the public profile.
//   - INVALID_CREDENTIALS for an unknown email OR a wrong password — the two
//     cases are indistinguishable to prevent account enumeration.
func (service *Service) Login(context context.Context, input LoginInput) (*TokenEnvelope, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeInvalidCredentials, "Invalid credentials")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// VerifyPassword separates "wrong password" (authentication outcome)
	// from "comparison could not run" (infrastructure failure).
	matches, err := sec.VerifyPassword(input.Password, user.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeVerification, "Password verification failed", err)
	}
	if !matches {
		return nil, apperr.New(apperr.CodeInvalidCredentials, "Invalid credentials")
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	return service.issueEnvelope(user)
}

// GetCurrentUser resolves the account behind a raw Authorization header value.
//
// # Flow
//  1. Extract the bearer token (each header defect has its own error code).
//  2. Verify signature, expiry, and algorithm.
//  3. Parse the subject claim as a UUID.
//  4. Load the user, through the short-TTL cache when possible.
//
// # Returns
//   - The [*User] owning the token.
//   - MISSING_AUTH_HEADER / INVALID_AUTH_HEADER / INVALID_AUTH_FORMAT for
//     header defects, INVALID_TOKEN for verification failures,
//     INVALID_USER_ID for a malformed subject, USER_NOT_FOUND when the
//     account no longer exists.
func (service *Service) GetCurrentUser(context context.Context, authorizationHeader string) (*User, error) {
	// ── 1. Header Extraction ──────────────────────────────────────────────

	tokenString, err := sec.ExtractBearer(authorizationHeader)
	if err != nil {
		return nil, bearerError(err)
	}

	// ── 2. Token Verification ─────────────────────────────────────────────

	claims, err := service.tokenProvider.Verify(tokenString)
	if err != nil {
		// Expired, tampered, wrong algorithm, wrong key: all collapse to a
		// single client-facing code so the response leaks nothing.
		return nil, apperr.Wrap(apperr.CodeInvalidToken, "Invalid token", err)
	}

	// ── 3. Subject Validation ─────────────────────────────────────────────

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidUserID, "Invalid user ID in token", err)
	}

	// ── 4. Cached Read ────────────────────────────────────────────────────

	// Cache failures are soft: log and fall through to the repository.
	if cached, err := service.userCache.Get(context, userID.String()); err != nil {
		ctxutil.GetLogger(context).Warn("user_cache_read_failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	// ── 5. Repository Read ────────────────────────────────────────────────

	user, err := service.userRepository.FindByID(context, userID.String())
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeUserNotFound, "User not found")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}

	if err := service.userCache.Set(context, user); err != nil {
		ctxutil.GetLogger(context).Warn("user_cache_write_failed", "error", err)
	}

	return user, nil
}

// Logout ends the client's session.
//
// Tokens are stateless and cannot be revoked server-side; the token simply
// remains valid until its expiry. The only server-side state tied to a user —
// the profile cache entry — is evicted so a deleted or changed account is not
// served from cache after logout.
func (service *Service) Logout(context context.Context, userID string) {
	if err := service.userCache.Delete(context, userID); err != nil {
		ctxutil.GetLogger(context).Warn("user_cache_evict_failed", "error", err)
	}
}

// issueEnvelope signs a token for user and assembles the response body.
func (service *Service) issueEnvelope(user *User) (*TokenEnvelope, error) {
	token, err := service.tokenProvider.Issue(user.ID, user.Email, service.tokenTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeToken, "Token generation failed", err)
	}

	return &TokenEnvelope{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(service.tokenTTL.Seconds()),
		User:      user.Info(),
	}, nil
}

// bearerError maps header-extraction sentinels to their error codes.
func bearerError(err error) error {
	switch {
	case errors.Is(err, sec.ErrNoAuthHeader):
		return apperr.New(apperr.CodeMissingAuthHeader, "Missing Authorization header")
	case errors.Is(err, sec.ErrAuthHeaderNotASCII):
		return apperr.New(apperr.CodeInvalidAuthHeader, "Invalid Authorization header")
	default:
		return apperr.New(apperr.CodeInvalidAuthFormat, "Invalid Authorization format")
	}
}
