// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package auth

import "time"

// User is the account entity backing authentication.
//
// # Security
//
// Password holds the bcrypt hash, never the plain text. The json:"-" tag is a
// hard guarantee that the hash cannot leak through any JSON response or the
// Redis cache, both of which serialize this struct.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserInfo is the public projection of a [User] embedded in token responses.
type UserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Info returns the client-safe projection of the user.
func (user *User) Info() UserInfo {
	return UserInfo{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// TokenEnvelope is the response body of a successful register or login.
//
// ExpiresIn is the token lifetime in seconds, derived from the configured TTL
// so the advertised value can never drift from the actual expiry claim.
type TokenEnvelope struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      UserInfo `json:"user"`
}
