// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Token is the part of a prior token response that later requests are built
// from.  It's read only input for logout and device secret exchange requests.
type Token struct {
	IDToken IDToken

	// DeviceSecret is nil when the provider didn't issue one.
	DeviceSecret *DeviceSecret

	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// NewToken creates a Token from an oauth2.Token returned by a token endpoint,
// lifting the id_token and device_secret out of its extra fields.  An
// id_token is required.
func NewToken(t *oauth2.Token) (*Token, error) {
	const op = "oidc.NewToken"
	if t == nil {
		return nil, fmt.Errorf("%s: oauth2 token is nil: %w", op, ErrNilParameter)
	}
	idToken, ok := t.Extra(ParamIDToken).(string)
	if !ok || idToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingIDToken)
	}
	tk := &Token{
		IDToken:      IDToken(idToken),
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
	if ds, ok := t.Extra(ParamDeviceSecret).(string); ok && ds != "" {
		secret := DeviceSecret(ds)
		tk.DeviceSecret = &secret
	}
	return tk, nil
}

// HasDeviceSecret returns true when the token carries a device secret.
func (t *Token) HasDeviceSecret() bool {
	return t != nil && t.DeviceSecret != nil
}
