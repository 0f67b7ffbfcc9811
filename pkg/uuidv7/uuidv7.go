// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Finstack uses UUIDv7 for request identifiers so that log lines sort
// chronologically by id even when aggregated across instances.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// uuid.NewV7 can fail when the monotonic counter within a single millisecond
// is exhausted; in that case we fall back to a random UUIDv4 rather than
// failing the caller. Callers only need uniqueness, ordering is best-effort.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}
