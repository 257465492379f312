// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/nativesso/oidc"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by redis, for relying parties running more
// than one instance.  Keys are namespaced with a prefix and expire after a
// ttl.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore returns a RedisStore using client.  A ttl <= 0 uses
// DefaultTTL.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) (*RedisStore, error) {
	const op = "pending.NewRedisStore"
	if client == nil {
		return nil, fmt.Errorf("%s: redis client is nil: %w", op, oidc.ErrNilParameter)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	const op = "RedisStore.Put"
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	const op = "RedisStore.Get"
	v, err := s.client.Get(ctx, s.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", fmt.Errorf("%s: %s: %w", op, key, oidc.ErrNotFound)
	case err != nil:
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	const op = "RedisStore.Delete"
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
