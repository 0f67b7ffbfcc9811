// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finstack/finstack/internal/platform/constants"
)

// RedisUserCache implements [UserCache] using Redis.
//
// Entries are JSON-serialized [User] values keyed by user ID. Because the
// password hash carries json:"-", a cached entry never contains the hash;
// cached users therefore serve profile reads only, never credential checks.
type RedisUserCache struct {
	client *redis.Client
}

// NewUserCache creates a new Redis-backed [UserCache].
func NewUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{client: client}
}

/*
Get retrieves a cached user by ID.

Description: A missing key is a normal cache miss and returns (nil, nil).

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: The cached user, or nil on a miss
  - error: Connectivity or decoding failures
*/
func (cache *RedisUserCache) Get(context context.Context, id string) (*User, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixUser + id

	// Get the serialized user from Redis
	payload, err := cache.client.Get(context, key).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_user_cache_get_failed: %w", err)
	}

	// Decode the cached entry
	user := &User{}
	if err := json.Unmarshal(payload, user); err != nil {
		return nil, fmt.Errorf("redis_user_cache_decode_failed: %w", err)
	}

	// Return the user
	return user, nil
}

/*
Set stores a user under its ID with the standard cache TTL.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Serialization or storage failures
*/
func (cache *RedisUserCache) Set(context context.Context, user *User) error {

	// Use constants for key prefix
	key := constants.RedisPrefixUser + user.ID

	// Serialize the user (the password hash is excluded by its json tag)
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_user_cache_encode_failed: %w", err)
	}

	// Set the entry with TTL
	if err := cache.client.Set(context, key, payload, constants.UserCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_user_cache_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Delete evicts the cached user, if present.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (cache *RedisUserCache) Delete(context context.Context, id string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixUser + id

	// Delete the entry from Redis
	if err := cache.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_user_cache_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
