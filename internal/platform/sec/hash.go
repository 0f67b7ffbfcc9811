// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// The resulting hash string is self-describing: it embeds its own salt and
// cost parameter, so no external salt storage is needed. bcrypt.DefaultCost
// keeps registration latency acceptable while staying deliberately slow.
//
// Fails only when bcrypt rejects the input (passwords longer than 72 bytes)
// or the environment is broken.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword compares a plain-text password with its stored hash.
//
// # Outcomes
//
// A clean mismatch is a NORMAL outcome and returns (false, nil) — callers map
// it to an invalid-credentials result. An error is returned only when the
// stored hash itself is malformed or truncated, which is an infrastructure
// failure, not a wrong password.
func VerifyPassword(plainTextPassword, existingHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("sec: failed to verify password: %w", err)
}
