// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pending

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/nativesso/oidc"
	bolt "go.etcd.io/bbolt"
)

const (
	boltDirPerm     = 0o700
	boltFilePerm    = 0o600
	boltOpenTimeout = time.Second
)

var pendingBucket = []byte("pending")

// BoltStore is a Store backed by a bbolt file, so pending requests survive a
// process restart.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens (creating if needed) the bbolt file at path.  Close
// must be called to release it.
func OpenBoltStore(path string) (*BoltStore, error) {
	const op = "pending.OpenBoltStore"
	if path == "" {
		return nil, fmt.Errorf("%s: path is empty: %w", op, oidc.ErrInvalidParameter)
	}
	if err := os.MkdirAll(filepath.Dir(path), boltDirPerm); err != nil {
		return nil, fmt.Errorf("%s: unable to create directory: %w", op, err)
	}
	db, err := bolt.Open(path, boltFilePerm, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("%s: unable to open db: %w", op, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pendingBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: unable to initialize db: %w", op, err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying db.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Put implements Store.
func (s *BoltStore) Put(_ context.Context, key, value string) error {
	const op = "BoltStore.Put"
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get implements Store.
func (s *BoltStore) Get(_ context.Context, key string) (string, error) {
	const op = "BoltStore.Get"
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(pendingBucket).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...) // v is only valid inside the tx
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if value == nil {
		return "", fmt.Errorf("%s: %s: %w", op, key, oidc.ErrNotFound)
	}
	return string(value), nil
}

// Delete implements Store.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	const op = "BoltStore.Delete"
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
