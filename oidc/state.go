// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// stateLength is the number of random bytes in a generated state.
const stateLength = 16

// StateFunc generates the opaque state value sent with a logout request.
type StateFunc func() (string, error)

// NewState generates a random, url safe, opaque state value.  It's the
// default StateFunc.
func NewState() (string, error) {
	const op = "oidc.NewState"
	b, err := uuid.GenerateRandomBytes(stateLength)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrStateGeneratorFailed, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
