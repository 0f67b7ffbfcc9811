// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/dberr"
	"github.com/finstack/finstack/internal/platform/sec"
)

// testSecret must be at least 32 bytes to mirror the production constraint.
const testSecret = "0123456789abcdef0123456789abcdef"

// memoryUserRepository is an in-memory [UserRepository] for service tests.
type memoryUserRepository struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	if _, exists := repository.byEmail[user.Email]; exists {
		return dberr.ErrUniqueViolation
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	repository.byEmail[user.Email] = user
	repository.byID[user.ID] = user
	return nil
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if user, ok := repository.byEmail[email]; ok {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.byID[id]; ok {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

// memoryUserCache is an in-memory [UserCache] recording its traffic.
type memoryUserCache struct {
	entries map[string]*User
	hits    int
}

func newMemoryUserCache() *memoryUserCache {
	return &memoryUserCache{entries: make(map[string]*User)}
}

func (cache *memoryUserCache) Get(_ context.Context, id string) (*User, error) {
	if user, ok := cache.entries[id]; ok {
		cache.hits++
		return user, nil
	}
	return nil, nil
}

func (cache *memoryUserCache) Set(_ context.Context, user *User) error {
	cache.entries[user.ID] = user
	return nil
}

func (cache *memoryUserCache) Delete(_ context.Context, id string) error {
	delete(cache.entries, id)
	return nil
}

// newTestService wires a service against in-memory storage and a real codec.
func newTestService(t *testing.T) (*Service, *memoryUserRepository, *memoryUserCache) {
	t.Helper()

	repository := newMemoryUserRepository()
	cache := newMemoryUserCache()
	codec := sec.NewTokenCodec(testSecret, "finstack.app")
	service := NewService(repository, cache, codec, 24*time.Hour)

	return service, repository, cache
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "correct horse battery",
		ConfirmPassword: "correct horse battery",
	}
}

/*
TestRegister_Success verifies the full happy path: the envelope carries a
verifiable token and the public profile, and the stored password is a hash.
*/
func TestRegister_Success(t *testing.T) {
	service, repository, _ := newTestService(t)

	envelope, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", envelope.TokenType)
	assert.Equal(t, 86400, envelope.ExpiresIn)
	assert.Equal(t, "Ada", envelope.User.FirstName)
	assert.Equal(t, "ada@example.com", envelope.User.Email)
	assert.NotEmpty(t, envelope.User.ID)

	// The issued token must verify and point back at the created account.
	codec := sec.NewTokenCodec(testSecret, "finstack.app")
	claims, err := codec.Verify(envelope.Token)
	require.NoError(t, err)
	assert.Equal(t, envelope.User.ID, claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)

	// The repository must hold a bcrypt hash, never the plain text.
	stored := repository.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse battery", stored.Password)
	matches, err := sec.VerifyPassword("correct horse battery", stored.Password)
	require.NoError(t, err)
	assert.True(t, matches)
}

/*
TestRegister_PasswordMismatch verifies the confirmation rule fires before any
persistence: nothing may be inserted on mismatch.
*/
func TestRegister_PasswordMismatch(t *testing.T) {
	service, repository, _ := newTestService(t)

	input := validRegistration()
	input.ConfirmPassword = "something else"

	_, err := service.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodePasswordMismatch))
	assert.Empty(t, repository.byEmail)
}

/*
TestRegister_EmailExists verifies the uniqueness rule, both via the up-front
check and via the unique-violation race fallback.
*/
func TestRegister_EmailExists(t *testing.T) {
	service, repository, _ := newTestService(t)

	_, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEmailExists))
	assert.Len(t, repository.byEmail, 1)
}

func TestLogin_Success(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	envelope, err := service.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", envelope.TokenType)
	assert.Equal(t, 86400, envelope.ExpiresIn)
	assert.Equal(t, "ada@example.com", envelope.User.Email)
	assert.NotEmpty(t, envelope.Token)
}

/*
TestLogin_InvalidCredentials verifies that an unknown email and a wrong
password are indistinguishable: same code, same message.
*/
func TestLogin_InvalidCredentials(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, unknownErr := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	_, wrongPassErr := service.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "wrong password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.True(t, apperr.HasCode(unknownErr, apperr.CodeInvalidCredentials))
	assert.True(t, apperr.HasCode(wrongPassErr, apperr.CodeInvalidCredentials))
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestGetCurrentUser_Success(t *testing.T) {
	service, _, cache := newTestService(t)

	envelope, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, err := service.GetCurrentUser(context.Background(), "Bearer "+envelope.Token)
	require.NoError(t, err)
	assert.Equal(t, envelope.User.ID, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)

	// The first resolution populates the cache; the second must hit it.
	_, err = service.GetCurrentUser(context.Background(), "Bearer "+envelope.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}

/*
TestGetCurrentUser_HeaderDefects verifies that each malformed header shape
resolves to its own error code.
*/
func TestGetCurrentUser_HeaderDefects(t *testing.T) {
	service, _, _ := newTestService(t)

	testCases := []struct {
		name   string
		header string
		code   apperr.Code
	}{
		{"missing_header", "", apperr.CodeMissingAuthHeader},
		{"non_ascii_header", "Bearer café", apperr.CodeInvalidAuthHeader},
		{"wrong_scheme", "Basic dXNlcjpwYXNz", apperr.CodeInvalidAuthFormat},
		{"no_scheme", "just-a-token", apperr.CodeInvalidAuthFormat},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.GetCurrentUser(context.Background(), testCase.header)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, testCase.code),
				"expected %s, got %v", testCase.code, err)
		})
	}
}

func TestGetCurrentUser_InvalidToken(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.GetCurrentUser(context.Background(), "Bearer not.a.jwt")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
}

/*
TestGetCurrentUser_ExpiredToken verifies that an expired but otherwise valid
token is rejected as INVALID_TOKEN.
*/
func TestGetCurrentUser_ExpiredToken(t *testing.T) {
	repository := newMemoryUserRepository()
	cache := newMemoryUserCache()
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	// A negative TTL mints tokens that are already expired.
	service := NewService(repository, cache, codec, -time.Minute)

	user := &User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "x"}
	require.NoError(t, repository.Create(context.Background(), user))

	token, err := codec.Issue(user.ID, user.Email, -time.Minute)
	require.NoError(t, err)

	_, err = service.GetCurrentUser(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
}

/*
TestGetCurrentUser_NonUUIDSubject verifies the INVALID_USER_ID path: a token
that verifies but whose subject is not a UUID.
*/
func TestGetCurrentUser_NonUUIDSubject(t *testing.T) {
	service, _, _ := newTestService(t)
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	token, err := codec.Issue("not-a-uuid", "ada@example.com", time.Hour)
	require.NoError(t, err)

	_, err = service.GetCurrentUser(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidUserID))
}

func TestGetCurrentUser_UserDeleted(t *testing.T) {
	service, _, _ := newTestService(t)
	codec := sec.NewTokenCodec(testSecret, "finstack.app")

	// A well-formed token for an account that does not exist.
	token, err := codec.Issue(uuid.NewString(), "ghost@example.com", time.Hour)
	require.NoError(t, err)

	_, err = service.GetCurrentUser(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))
}

/*
TestLogout_EvictsCache verifies that logout removes the cached profile so a
later /me cannot be served stale from Redis.
*/
func TestLogout_EvictsCache(t *testing.T) {
	service, _, cache := newTestService(t)

	envelope, err := service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// Populate the cache via a resolution.
	_, err = service.GetCurrentUser(context.Background(), "Bearer "+envelope.Token)
	require.NoError(t, err)
	require.Contains(t, cache.entries, envelope.User.ID)

	service.Logout(context.Background(), envelope.User.ID)
	assert.NotContains(t, cache.entries, envelope.User.ID)
}
