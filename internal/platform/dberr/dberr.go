// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Storage code never leaks pgx types upward. Instead, every error is sorted
// into one of three buckets the service layer can act on:
//
//   - not found        (pgx.ErrNoRows)
//   - unique conflict  (SQLSTATE 23505)
//   - infrastructure   (everything else, split into connection vs. query)
package dberr

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/finstack/finstack/internal/platform/apperr"
)

// ErrNotFound is the standard sentinel returned when a queried row doesn't exist.
// Services translate it into their flow-specific code (USER_NOT_FOUND, NOT_FOUND, ...).
var ErrNotFound = errors.New("dberr: row not found")

// ErrUniqueViolation is returned when an insert hits a unique constraint.
var ErrUniqueViolation = errors.New("dberr: unique constraint violation")

// IsNotFound reports whether err represents an absent row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint conflict.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrUniqueViolation) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsConnectionFailure reports whether err happened while acquiring or keeping
// a pooled connection, as opposed to executing a query on a healthy one.
//
// pgxpool acquires lazily inside Query/Exec, so an exhausted or unreachable
// pool surfaces as a context deadline, a connect error, or a closed-pool error.
func IsConnectionFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	// Connection-exception class (08xxx) covers broken and refused connections.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsConnectionException(pgErr.Code) {
		return true
	}

	return false
}

// Classify wraps a raw storage error into the matching infrastructure
// [apperr.Code]: DB_CONNECTION_ERROR for acquisition failures, queryCode for
// everything else. Not-found and conflict cases must be handled by the caller
// BEFORE classification — they are outcomes, not infrastructure failures.
func Classify(err error, queryCode apperr.Code, message string) error {
	if err == nil {
		return nil
	}
	if IsConnectionFailure(err) {
		return apperr.Wrap(apperr.CodeDBConnection, "Database connection failed", err)
	}
	return apperr.Wrap(queryCode, message, err)
}
