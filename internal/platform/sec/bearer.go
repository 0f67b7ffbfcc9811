// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package sec

import (
	"errors"
	"strings"
)

// Bearer extraction failure modes. Callers map these onto their error codes;
// each one must stay distinguishable because the API reports them separately.
var (
	// ErrNoAuthHeader: the Authorization header is absent entirely.
	ErrNoAuthHeader = errors.New("sec: missing authorization header")

	// ErrAuthHeaderNotASCII: the header contains non-ASCII or control bytes.
	ErrAuthHeaderNotASCII = errors.New("sec: authorization header is not ASCII")

	// ErrNotBearer: the header does not use the "Bearer <token>" scheme.
	ErrNotBearer = errors.New("sec: authorization header is not a bearer credential")
)

const bearerPrefix = "Bearer "

// ExtractBearer parses an Authorization header value into the raw bearer token.
//
// # Checks, in order
//
//  1. Header present.
//  2. Header printable ASCII (a credential is an opaque token, never unicode).
//  3. "Bearer " scheme prefix, case-sensitive per RFC 6750's canonical form.
func ExtractBearer(authorizationHeader string) (string, error) {
	if authorizationHeader == "" {
		return "", ErrNoAuthHeader
	}

	for i := 0; i < len(authorizationHeader); i++ {
		b := authorizationHeader[i]
		if b < 0x20 || b > 0x7e {
			return "", ErrAuthHeaderNotASCII
		}
	}

	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return "", ErrNotBearer
	}

	return authorizationHeader[len(bearerPrefix):], nil
}
