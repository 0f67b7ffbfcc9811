// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package auth

import "context"

// UserRepository abstracts persistence of [User] entities.
//
// # Error Contract
//
// Implementations return raw storage errors; the service layer classifies
// them (not-found, conflict, connection vs. query) via the dberr package.
type UserRepository interface {
	// Create persists a new user and fills in the generated ID and timestamps.
	Create(ctx context.Context, user *User) error

	// FindByEmail returns the user owning the given email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)
}

// UserCache is a short-TTL read-through cache in front of [UserRepository].
//
// A cache failure must never fail a request: callers treat every error from
// this interface as a miss and fall back to the repository.
type UserCache interface {
	// Get returns the cached user, or (nil, nil) on a miss.
	Get(ctx context.Context, id string) (*User, error)

	// Set stores the user under its ID with the standard cache TTL.
	Set(ctx context.Context, user *User) error

	// Delete evicts the cached user, if present.
	Delete(ctx context.Context, id string) error
}
