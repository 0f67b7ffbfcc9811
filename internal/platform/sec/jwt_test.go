// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finstack/finstack/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestTokenCodec_RoundTrip verifies issued claims survive verification intact.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	token, err := codec.Issue("0198ad9e-0001-7000-8000-000000000001", "john@example.com", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0198ad9e-0001-7000-8000-000000000001", claims.Subject)
	assert.Equal(t, "john@example.com", claims.Email)

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(24*time.Hour), claims.ExpiresAt.Time, time.Second)
}

/*
TestTokenCodec_Expired verifies a structurally valid but expired token is
rejected even though the signature checks out.
*/
func TestTokenCodec_Expired(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	token, err := codec.Issue("user-1", "john@example.com", -1*time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

/*
TestTokenCodec_WrongSecret verifies a token signed under a different secret
never validates, regardless of claim contents.
*/
func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := sec.NewTokenCodec(testSecret, "finstack.app")
	verifier := sec.NewTokenCodec("ffffffffffffffffffffffffffffffff", "finstack.app")

	token, err := issuer.Issue("user-1", "john@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsForeignAlgorithms verifies the method allow-list: a token
declaring alg=none must fail before any claim is trusted.
*/
func TestTokenCodec_RejectsForeignAlgorithms(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RequiresExpiry verifies tokens without an exp claim are rejected.
*/
func TestTokenCodec_RequiresExpiry(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	})
	token, err := eternal.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_Garbage verifies structurally malformed input fails cleanly.
*/
func TestTokenCodec_Garbage(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	for _, input := range []string{"", "xyz", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(input)
		assert.Error(t, err, "input %q", input)
	}
}
