// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// ProviderConfig is the provider metadata the requests in this package are
// addressed to.  It may be static (loaded from a file) or discovered with
// DiscoverProviderConfig.
type ProviderConfig struct {
	Issuer                string `json:"issuer" yaml:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint,omitempty" yaml:"authorization_endpoint,omitempty"`
	TokenEndpoint         string `json:"token_endpoint" yaml:"token_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint,omitempty" yaml:"end_session_endpoint,omitempty"`
	RevocationEndpoint    string `json:"revocation_endpoint,omitempty" yaml:"revocation_endpoint,omitempty"`
	UserInfoEndpoint      string `json:"userinfo_endpoint,omitempty" yaml:"userinfo_endpoint,omitempty"`
}

// DiscoverProviderConfig fetches the provider's metadata from
// <issuer>/.well-known/openid-configuration using the config's http client.
// The returned issuer is verified to match c.Issuer.
func DiscoverProviderConfig(ctx context.Context, c *Config) (*ProviderConfig, error) {
	const op = "oidc.DiscoverProviderConfig"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if c.Issuer == "" {
		return nil, fmt.Errorf("%s: issuer is empty: %w", op, ErrInvalidParameter)
	}
	client, err := c.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	logger := c.logger().Named("discovery")
	logger.Debug("discovering provider", "issuer", c.Issuer)

	p, err := oidc.NewProvider(HTTPClientContext(ctx, client), c.Issuer) // makes http req to issuer for discovery
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDiscoveryFailed, err)
	}
	var pc ProviderConfig
	if err := p.Claims(&pc); err != nil {
		return nil, fmt.Errorf("%s: unable to decode provider metadata: %w: %w", op, ErrDiscoveryFailed, err)
	}
	logger.Trace("provider discovered", "token_endpoint", pc.TokenEndpoint, "end_session_endpoint", pc.EndSessionEndpoint)
	return &pc, nil
}

// OAuth2Endpoint returns the provider's endpoints in the form expected by
// golang.org/x/oauth2.
func (pc *ProviderConfig) OAuth2Endpoint() oauth2.Endpoint {
	if pc == nil {
		return oauth2.Endpoint{}
	}
	return oauth2.Endpoint{
		AuthURL:  pc.AuthorizationEndpoint,
		TokenURL: pc.TokenEndpoint,
	}
}
