// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// LogoutBuilder assembles LogoutParams.  Every setter overwrites the field(s)
// it sets and returns the builder for chaining.  It isn't safe for concurrent
// use; the LogoutRequest it builds is.
type LogoutBuilder struct {
	params LogoutParams
	logger hclog.Logger
}

// NewLogoutBuilder returns a builder whose state is already set to a value
// from the state func (NewState unless WithStateFunc is used).
//
// Supported options:
//   - WithStateFunc
//   - WithLogger
func NewLogoutBuilder(opt ...Option) (*LogoutBuilder, error) {
	const op = "oidc.NewLogoutBuilder"
	opts := getLogoutOpts(opt...)
	if opts.withStateFunc == nil {
		return nil, fmt.Errorf("%s: state func is nil: %w", op, ErrNilParameter)
	}
	state, err := opts.withStateFunc()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate state: %w", op, err)
	}
	logger := opts.withLogger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LogoutBuilder{
		params: LogoutParams{State: &state},
		logger: logger,
	}, nil
}

// IDTokenHint sets the id_token_hint.
func (b *LogoutBuilder) IDTokenHint(idToken string) *LogoutBuilder {
	b.params.IDTokenHint = idToken
	return b
}

// EndSessionEndpoint sets the end session endpoint.
func (b *LogoutBuilder) EndSessionEndpoint(endpoint string) *LogoutBuilder {
	b.params.EndSessionEndpoint = endpoint
	return b
}

// PostLogoutRedirect sets the post_logout_redirect_uri.
func (b *LogoutBuilder) PostLogoutRedirect(redirectURI string) *LogoutBuilder {
	b.params.PostLogoutRedirectURI = redirectURI
	return b
}

// State replaces the generated state.
func (b *LogoutBuilder) State(state string) *LogoutBuilder {
	b.params.State = &state
	return b
}

// NoState clears the state so none is sent.
func (b *LogoutBuilder) NoState() *LogoutBuilder {
	b.params.State = nil
	return b
}

// DeviceSecret sets the device_secret.
func (b *LogoutBuilder) DeviceSecret(secret string) *LogoutBuilder {
	b.params.DeviceSecret = &secret
	return b
}

// NoDeviceSecret clears the device_secret so none is sent.
func (b *LogoutBuilder) NoDeviceSecret() *LogoutBuilder {
	b.params.DeviceSecret = nil
	return b
}

// FromProviderConfig copies the provider's end session endpoint.
func (b *LogoutBuilder) FromProviderConfig(pc *ProviderConfig) *LogoutBuilder {
	if pc != nil {
		b.params.EndSessionEndpoint = pc.EndSessionEndpoint
	}
	return b
}

// FromToken copies the token's id_token into id_token_hint and its device
// secret into device_secret.  A token without a device secret clears it.
func (b *LogoutBuilder) FromToken(tk *Token) *LogoutBuilder {
	if tk == nil {
		return b
	}
	b.params.IDTokenHint = string(tk.IDToken)
	b.params.DeviceSecret = nil
	if tk.DeviceSecret != nil {
		b.DeviceSecret(string(*tk.DeviceSecret))
	}
	return b
}

// FromConfig copies the config's end session redirect into
// post_logout_redirect_uri.
func (b *LogoutBuilder) FromConfig(c *Config) *LogoutBuilder {
	if c != nil {
		b.params.PostLogoutRedirectURI = c.EndSessionRedirectURI
	}
	return b
}

// Build validates the params set so far and returns a LogoutRequest.  On
// failure no request is returned; the error is a *MissingFieldError for the
// first missing required field.
func (b *LogoutBuilder) Build() (*LogoutRequest, error) {
	const op = "LogoutBuilder.Build"
	r, err := NewLogoutRequest(b.params)
	if err != nil {
		b.logger.Debug("logout request is invalid", "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.logger.Debug("logout request built", "request", r)
	return r, nil
}

// logoutOptions is the set of available options for NewLogoutBuilder
type logoutOptions struct {
	withStateFunc StateFunc
	withLogger    hclog.Logger
}

func logoutDefaults() logoutOptions {
	return logoutOptions{
		withStateFunc: NewState,
	}
}

func getLogoutOpts(opt ...Option) logoutOptions {
	opts := logoutDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithStateFunc provides the func used to generate a logout request's
// default state.
func WithStateFunc(fn StateFunc) Option {
	return func(o interface{}) {
		if o, ok := o.(*logoutOptions); ok {
			o.withStateFunc = fn
		}
	}
}
