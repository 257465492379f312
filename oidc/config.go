// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/nativesso/oidc/internal/strutils"
)

// Config represents the relying party configuration supplied by the host
// application.  The requests in this package only read it.
type Config struct {
	// ClientID is the relying party id
	ClientID string

	// Scopes is the list of scopes the relying party requested.  Duplicates
	// are removed by NewConfig; the remaining order is preserved and is the
	// order used when the scopes are joined.
	Scopes []string

	// Audience is the optional audience sent with token exchange requests.
	Audience string

	// EndSessionRedirectURI is where the provider should send the browser
	// once a logout has completed.
	EndSessionRedirectURI string

	// Issuer is an optional issuer URL, needed only for discovery.
	Issuer string

	// ProviderCA is an optional CA cert to use when sending requests to the
	// provider.
	ProviderCA string

	// Logger is an optional logger.  A nil Logger discards everything.
	Logger hclog.Logger
}

// NewConfig composes a new config.
//
// Supported options:
//   - WithScopes
//   - WithAudience
//   - WithEndSessionRedirectURI
//   - WithIssuer
//   - WithProviderCA
//   - WithLogger
func NewConfig(clientID string, opt ...Option) (*Config, error) {
	const op = "oidc.NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		ClientID:              clientID,
		Scopes:                strutils.RemoveDuplicatesStable(opts.withScopes, false),
		Audience:              opts.withAudience,
		EndSessionRedirectURI: opts.withEndSessionRedirectURI,
		Issuer:                opts.withIssuer,
		ProviderCA:            opts.withProviderCA,
		Logger:                opts.withLogger,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return c, nil
}

// Validate the config.  Every problem found is reported, not just the first.
// Only the client id is required here: endpoints and redirects are enforced
// by the request that needs them.
func (c *Config) Validate() error {
	const op = "Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var result *multierror.Error
	if c.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("client id is empty: %w", ErrInvalidParameter))
	}
	if c.Issuer != "" {
		u, err := url.Parse(c.Issuer)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("issuer %q is invalid: %w", c.Issuer, ErrMalformedEndpoint))
		case !strutils.StrListContains([]string{"https", "http"}, u.Scheme):
			result = multierror.Append(result, fmt.Errorf("issuer %q scheme is not http or https: %w", c.Issuer, ErrMalformedEndpoint))
		}
	}
	if c.EndSessionRedirectURI != "" {
		if _, err := url.Parse(c.EndSessionRedirectURI); err != nil {
			result = multierror.Append(result, fmt.Errorf("end session redirect %q is invalid: %w", c.EndSessionRedirectURI, ErrMalformedEndpoint))
		}
	}
	if c.ProviderCA != "" {
		if _, err := certPool(c.ProviderCA); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HTTPClient returns a new http client for talking to the provider, trusting
// ProviderCA when it's set and the system roots otherwise.
func (c *Config) HTTPClient() (*http.Client, error) {
	const op = "Config.HTTPClient"
	tr := cleanhttp.DefaultPooledTransport()
	if c.ProviderCA != "" {
		pool, err := certPool(c.ProviderCA)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tr.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}
	return &http.Client{
		Transport: tr,
	}, nil
}

// HTTPClientContext returns a new Context that carries the provided HTTP
// client. It sets the same context key used by github.com/coreos/go-oidc and
// golang.org/x/oauth2, so the returned context works for those packages too.
func HTTPClientContext(ctx context.Context, client *http.Client) context.Context {
	return oidc.ClientContext(ctx, client)
}

func (c *Config) logger() hclog.Logger {
	if c == nil || c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func certPool(caPEM string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM([]byte(caPEM)); !ok {
		return nil, fmt.Errorf("could not parse CA PEM value: %w", ErrInvalidCACert)
	}
	return pool, nil
}

// configOptions is the set of available options for NewConfig
type configOptions struct {
	withScopes                []string
	withAudience              string
	withEndSessionRedirectURI string
	withIssuer                string
	withProviderCA            string
	withLogger                hclog.Logger
}

// configDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func configDefaults() configOptions {
	return configOptions{}
}

// getConfigOpts gets the defaults and applies the opt overrides passed in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithScopes provides an optional list of scopes for the config
func WithScopes(scopes ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withScopes = scopes
		}
	}
}

// WithAudience provides an optional audience for the config
func WithAudience(aud string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withAudience = aud
		}
	}
}

// WithEndSessionRedirectURI provides an optional post logout redirect for the
// config
func WithEndSessionRedirectURI(u string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withEndSessionRedirectURI = u
		}
	}
}

// WithIssuer provides an optional issuer for the config
func WithIssuer(issuer string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withIssuer = issuer
		}
	}
}

// WithProviderCA provides an optional CA cert for the config
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProviderCA = cert
		}
	}
}
