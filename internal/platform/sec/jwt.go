// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the payload embedded inside an access token.
//
// # Statelessness
//
// The claims are never persisted server-side: their only storage is the signed
// token held by the client. An unexpired, correctly-signed token is sufficient
// proof of identity — there is no session table to consult.
type Claims struct {
	jwt.RegisteredClaims

	// Email mirrors the account email at issuance time so handlers can log
	// and display the subject without a database round-trip.
	Email string `json:"email"`
}

// TokenCodec signs and verifies JWT access tokens using HS256.
//
// # Key Management
//
// The shared secret is process-wide configuration injected once at
// construction. Rotating the secret invalidates every outstanding token;
// no key versioning is supported.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a TokenCodec from the configured shared secret.
// Secret strength is enforced upstream by config.Load.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), issuer: issuer}
}

// Issue creates a signed access token for the given user.
//
// # Claims
//
//   - sub:   the user id in string form
//   - email: the account email
//   - iat:   now (unix seconds, UTC)
//   - exp:   now + timeToLive
func (codec *TokenCodec) Issue(userID, email string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a JWT string.
//
// # Order of Checks
//
// The signing method is pinned to HS256 and the signature is verified BEFORE
// any embedded claim (including exp) is trusted, closing the forged-expiry
// bypass. Expiry uses strict wall-clock comparison — no skew compensation.
func (codec *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
