// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package pending persists in-flight requests while the user's browser is
// away at the provider.
package pending

import (
	"context"
	"fmt"

	"github.com/hashicorp/nativesso/oidc"
)

// Store defines an interface for saving and reading serialized requests.
// Implementations must be concurrently safe.
type Store interface {
	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key, value string) error

	// Get returns the value stored under key, or an error wrapping
	// oidc.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key.  Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SaveLogout stores r under its Key(), replacing any pending logout.
func SaveLogout(ctx context.Context, s Store, r *oidc.LogoutRequest) error {
	const op = "pending.SaveLogout"
	switch {
	case s == nil:
		return fmt.Errorf("%s: store is nil: %w", op, oidc.ErrNilParameter)
	case r == nil:
		return fmt.Errorf("%s: logout request is nil: %w", op, oidc.ErrNilParameter)
	}
	text, err := r.Serialize()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Put(ctx, r.Key(), text); err != nil {
		return fmt.Errorf("%s: unable to store logout request: %w", op, err)
	}
	return nil
}

// RestoreLogout reads and validates the pending logout.
func RestoreLogout(ctx context.Context, s Store) (*oidc.LogoutRequest, error) {
	const op = "pending.RestoreLogout"
	if s == nil {
		return nil, fmt.Errorf("%s: store is nil: %w", op, oidc.ErrNilParameter)
	}
	text, err := s.Get(ctx, oidc.LogoutRequestKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err := oidc.RestoreLogoutRequest(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ForgetLogout removes the pending logout once the flow has completed or been
// abandoned.
func ForgetLogout(ctx context.Context, s Store) error {
	const op = "pending.ForgetLogout"
	if s == nil {
		return fmt.Errorf("%s: store is nil: %w", op, oidc.ErrNilParameter)
	}
	if err := s.Delete(ctx, oidc.LogoutRequestKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
