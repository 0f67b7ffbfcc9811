// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

/*
Package apperr defines the centralized error handling framework for Finstack.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - Code: a closed enumeration of machine-readable error identifiers.
  - AppError: a struct pairing a Code with a client-safe message.
  - Mapping: a single exhaustive Code -> HTTP status table ([StatusOf]).

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses. HTTP status selection never happens anywhere else: handlers
and middleware carry the Code, and [StatusOf] is the only authority on status codes.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error identifier.
//
// # Closed Set
//
// The set of codes is fixed at compile time. Downstream layers select HTTP
// status codes from [StatusOf] by Code alone; the human-readable message is
// purely informational and must never drive control flow.
type Code string

// # Input / Validation

const (
	CodePasswordMismatch  Code = "PASSWORD_MISMATCH"
	CodeInvalidAuthFormat Code = "INVALID_AUTH_FORMAT"
	CodeMissingAuthHeader Code = "MISSING_AUTH_HEADER"
	CodeInvalidAuthHeader Code = "INVALID_AUTH_HEADER"
	CodeInvalidUserID     Code = "INVALID_USER_ID"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInvalidJSON       Code = "INVALID_JSON"
)

// # Authentication

const (
	// CodeInvalidCredentials covers BOTH "no such account" and "wrong password".
	// The two cases must stay indistinguishable to prevent account enumeration.
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidToken       Code = "INVALID_TOKEN"
)

// # Resource

const (
	CodeEmailExists  Code = "EMAIL_EXISTS"
	CodeUserNotFound Code = "USER_NOT_FOUND"
	CodeNotFound     Code = "NOT_FOUND"
)

// # Infrastructure

const (
	CodeDBConnection Code = "DB_CONNECTION_ERROR"
	CodeDBQuery      Code = "DB_QUERY_ERROR"
	CodeUserCreation Code = "USER_CREATION_ERROR"
	CodeHash         Code = "HASH_ERROR"
	CodeVerification Code = "VERIFICATION_ERROR"
	CodeToken        Code = "TOKEN_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeUnavailable  Code = "SERVICE_UNAVAILABLE"
)

// statusTable is the single exhaustive mapping from Code to HTTP status.
//
// Header-extraction failures (MISSING_AUTH_HEADER etc.) map to 401 rather than
// 400: they are authentication challenges, matching the /auth/me contract.
var statusTable = map[Code]int{
	CodePasswordMismatch: http.StatusBadRequest,
	CodeInvalidUserID:    http.StatusBadRequest,
	CodeValidation:       http.StatusBadRequest,
	CodeInvalidJSON:      http.StatusBadRequest,

	CodeMissingAuthHeader:  http.StatusUnauthorized,
	CodeInvalidAuthHeader:  http.StatusUnauthorized,
	CodeInvalidAuthFormat:  http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusUnauthorized,

	CodeEmailExists:  http.StatusConflict,
	CodeUserNotFound: http.StatusNotFound,
	CodeNotFound:     http.StatusNotFound,

	CodeDBConnection: http.StatusInternalServerError,
	CodeDBQuery:      http.StatusInternalServerError,
	CodeUserCreation: http.StatusInternalServerError,
	CodeHash:         http.StatusInternalServerError,
	CodeVerification: http.StatusInternalServerError,
	CodeToken:        http.StatusInternalServerError,
	CodeInternal:     http.StatusInternalServerError,
	CodeUnavailable:  http.StatusServiceUnavailable,
}

// Codes returns every enumerated Code. Used by the exhaustiveness test.
func Codes() []Code {
	codes := make([]Code, 0, len(statusTable))
	for code := range statusTable {
		codes = append(codes, code)
	}
	return codes
}

// StatusOf returns the HTTP status for a Code.
//
// An unknown Code maps to 500: the table is exhaustive by construction, so a
// miss means a programming error, which must still produce a safe response.
func StatusOf(code Code) int {
	if status, ok := statusTable[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is the canonical error type for the Finstack API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is the machine-readable error identifier.
	Code Code `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus returns the status selected for this error's Code.
func (e *AppError) HTTPStatus() int { return StatusOf(e.Code) }

// New creates an [AppError] carrying the given Code and client-safe message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an [AppError] that records cause for server-side logging.
func Wrap(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// # Common Constructors

// NotFound creates a NOT_FOUND [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Income") // Returns "Income not found"
func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

// ValidationError creates a VALIDATION_ERROR [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an INTERNAL_ERROR [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		Cause:   cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries the given Code.
func HasCode(err error, code Code) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
