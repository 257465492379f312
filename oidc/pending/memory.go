// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/nativesso/oidc"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a pending request is kept by the stores that
// expire entries.
const DefaultTTL = 10 * time.Minute

// MemoryStore is an in-process Store whose entries expire after a ttl.
type MemoryStore struct {
	c *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore. A ttl <= 0 uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{c: gocache.New(ttl, time.Minute)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.c.Set(key, value, gocache.DefaultExpiration)
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	const op = "MemoryStore.Get"
	v, ok := m.c.Get(key)
	if !ok {
		return "", fmt.Errorf("%s: %s: %w", op, key, oidc.ErrNotFound)
	}
	s, _ := v.(string)
	return s, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
