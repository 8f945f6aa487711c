// Copyright (c) 2026 FormGrid. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formgrid/formgrid/internal/platform/constants"
)

// RedisSessionStore implements [SessionStore] using Redis hashes.
//
// Each session scope maps to one hash at `auth:session:{token}:{scope}`,
// so DestroyScope is a single DEL and the whole scope shares one TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// scopeKey builds the Redis key for one session scope.
func scopeKey(token string, scope Scope) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixSession, token, scope)
}

/*
Get reads one key from a session scope.

Parameters:
  - context: context.Context
  - token: string
  - scope: Scope
  - key: string

Returns:
  - string: The stored value, or "" when absent
  - error: Connectivity failures
*/
func (store *RedisSessionStore) Get(context context.Context, token string, scope Scope, key string) (string, error) {
	value, err := store.client.HGet(context, scopeKey(token, scope), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Missing keys are normal for session data
			return "", nil
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return value, nil
}

/*
Set writes one key into a session scope and refreshes the scope TTL.

Parameters:
  - context: context.Context
  - token: string
  - scope: Scope
  - key: string
  - value: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (store *RedisSessionStore) Set(context context.Context, token string, scope Scope, key string, value string, ttl time.Duration) error {
	redisKey := scopeKey(token, scope)

	if err := store.client.HSet(context, redisKey, key, value).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	// Sliding expiry: every write refreshes the scope lifetime
	if err := store.client.Expire(context, redisKey, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_expire_failed: %w", err)
	}

	return nil
}

/*
Exists reports whether a key is present in a session scope.

Parameters:
  - context: context.Context
  - token: string
  - scope: Scope
  - key: string

Returns:
  - bool: Presence
  - error: Connectivity failures
*/
func (store *RedisSessionStore) Exists(context context.Context, token string, scope Scope, key string) (bool, error) {
	present, err := store.client.HExists(context, scopeKey(token, scope), key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_exists_failed: %w", err)
	}
	return present, nil
}

/*
DestroyScope removes an entire scope of a session.

Parameters:
  - context: context.Context
  - token: string
  - scope: Scope

Returns:
  - error: Deletion failures
*/
func (store *RedisSessionStore) DestroyScope(context context.Context, token string, scope Scope) error {
	if err := store.client.Del(context, scopeKey(token, scope)).Err(); err != nil {
		return fmt.Errorf("redis_session_destroy_failed: %w", err)
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
