// Copyright (c) 2026 FormGrid. All rights reserved.

package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formgrid/formgrid/internal/platform/constants"
)

// CachedRepository wraps a [Repository] with a Redis cache-aside layer.
//
// The defaults bag is read on every login, so a cache miss loads from the
// inner repository and populates Redis with a TTL; writes go through to the
// inner repository and drop the cached copy.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository creates a new Redis-fronted Repository.
func NewCachedRepository(inner Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{inner: inner, client: client, ttl: ttl}
}

/*
Load returns the defaults bag, preferring the Redis cache.

Description: Cache failures are not fatal; the inner repository remains the
source of truth and a broken cache degrades to a direct load.

Parameters:
  - context: context.Context

Returns:
  - Defaults: Key-value bag
  - error: Inner repository failures
*/
func (repository *CachedRepository) Load(context context.Context) (Defaults, error) {

	// Try the cache first. A miss, a connectivity error, or a corrupt entry
	// all fall through to a direct load.
	cached, err := repository.client.Get(context, constants.RedisKeyAppSettings).Result()
	if err == nil {
		defaults := Defaults{}
		if unmarshalErr := json.Unmarshal([]byte(cached), &defaults); unmarshalErr == nil {
			return defaults, nil
		}
	}

	// Cache miss: load from the source of truth
	defaults, err := repository.inner.Load(context)
	if err != nil {
		return nil, fmt.Errorf("settings_cache_load_failed: %w", err)
	}

	// Populate the cache; failure here is non-fatal
	if encoded, marshalErr := json.Marshal(defaults); marshalErr == nil {
		repository.client.Set(context, constants.RedisKeyAppSettings, encoded, repository.ttl)
	}

	return defaults, nil
}

/*
Save writes through to the inner repository and invalidates the cache.

Parameters:
  - context: context.Context
  - values: Defaults

Returns:
  - error: Inner repository failures
*/
func (repository *CachedRepository) Save(context context.Context, values Defaults) error {
	if err := repository.inner.Save(context, values); err != nil {
		return fmt.Errorf("settings_cache_save_failed: %w", err)
	}

	// Drop the cached copy; the next Load repopulates it
	repository.client.Del(context, constants.RedisKeyAppSettings)

	return nil
}

var _ Repository = (*CachedRepository)(nil)
