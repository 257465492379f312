// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// ContentTypeJSON is the Accept header sent with token requests.
	ContentTypeJSON = "application/json"

	// ContentTypeForm is the Content-Type of token request bodies.
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// TokenExchangeRequest is a back-channel token exchange request addressed to
// the provider's token endpoint.  It's immutable once created and is only a
// description of the request: sending it is up to the caller.
type TokenExchangeRequest struct {
	requestType RequestType
	clientID    string
	grantType   string
	endpoint    *url.URL
	header      http.Header
	params      Params
}

// NewTokenExchangeRequest creates a request which exchanges the actorToken
// and subjectToken for a new token.  The client id, scopes and audience come
// from c, and the request is addressed to pc.TokenEndpoint.  The scopes are
// joined and filtered with FilterScopes.
//
// Only the client id and token endpoint are required.  The actor and subject
// tokens are sent as given unless WithRequireTokens is used.
//
// Supported options:
//   - WithRequireTokens
func NewTokenExchangeRequest(c *Config, pc *ProviderConfig, actorToken, subjectToken, grantType string, opt ...Option) (*TokenExchangeRequest, error) {
	const op = "oidc.NewTokenExchangeRequest"
	switch {
	case c == nil:
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	case pc == nil:
		return nil, fmt.Errorf("%s: provider config is nil: %w", op, ErrNilParameter)
	}
	opts := getTokenExchangeOpts(opt...)
	if err := validateTokenExchange(c.ClientID, pc.TokenEndpoint, actorToken, subjectToken, opts.withRequireTokens); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	endpoint, err := parseEndpoint(pc.TokenEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: token endpoint %w", op, err)
	}
	params, err := NewTokenExchangeParams(c.ClientID, grantType, actorToken, subjectToken, FilterScopes(c.Scopes), c.Audience)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r := &TokenExchangeRequest{
		requestType: RequestTypeTokenExchange,
		clientID:    c.ClientID,
		grantType:   grantType,
		endpoint:    endpoint,
		header:      http.Header{"Accept": []string{ContentTypeJSON}},
		params:      params,
	}
	c.logger().Debug("token exchange request created", "request", r)
	return r, nil
}

// NewDeviceSecretExchange creates a token exchange request for native SSO:
// the token's device secret is the actor token and its id_token is the
// subject token.
func NewDeviceSecretExchange(c *Config, pc *ProviderConfig, tk *Token, opt ...Option) (*TokenExchangeRequest, error) {
	const op = "oidc.NewDeviceSecretExchange"
	if tk == nil {
		return nil, fmt.Errorf("%s: token is nil: %w", op, ErrNilParameter)
	}
	if !tk.HasDeviceSecret() {
		return nil, fmt.Errorf("%s: %w", op, missingField(ParamDeviceSecret))
	}
	if tk.IDToken == "" {
		return nil, fmt.Errorf("%s: %w", op, missingField(ParamIDToken))
	}
	r, err := NewTokenExchangeRequest(c, pc, string(*tk.DeviceSecret), string(tk.IDToken), GrantTypeTokenExchange, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// Type returns RequestTypeTokenExchange.
func (r *TokenExchangeRequest) Type() RequestType { return r.requestType }

// Method returns the http method of the request, which is always POST.
func (r *TokenExchangeRequest) Method() string { return http.MethodPost }

// URL returns a copy of the token endpoint the request is addressed to.
func (r *TokenExchangeRequest) URL() *url.URL {
	u := *r.endpoint
	return &u
}

// Header returns a copy of the request headers.
func (r *TokenExchangeRequest) Header() http.Header { return r.header.Clone() }

// Params returns the body parameters.
func (r *TokenExchangeRequest) Params() Params {
	return Params{keys: r.params.Keys(), values: r.params.Map()}
}

// Body returns the form encoded request body.
func (r *TokenExchangeRequest) Body() string { return r.params.Encode() }

// HTTPRequest returns an unsent *http.Request for the token exchange.
func (r *TokenExchangeRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	const op = "TokenExchangeRequest.HTTPRequest"
	req, err := http.NewRequestWithContext(ctx, r.Method(), r.endpoint.String(), strings.NewReader(r.Body()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header = r.Header()
	req.Header.Set("Content-Type", ContentTypeForm)
	return req, nil
}

// String redacts the actor and subject tokens.
func (r *TokenExchangeRequest) String() string {
	scope, _ := r.params.Get(ParamScope)
	aud, _ := r.params.Get(ParamAudience)
	return fmt.Sprintf("TokenExchangeRequest{Endpoint: %s, ClientID: %s, GrantType: %s, Scope: %q, Audience: %q, ActorToken: %s, SubjectToken: %s}",
		r.endpoint, r.clientID, r.grantType, scope, aud, RedactedDeviceSecret, RedactedIDToken)
}

// tokenExchangeOptions is the set of available options for
// NewTokenExchangeRequest
type tokenExchangeOptions struct {
	withRequireTokens bool
}

func tokenExchangeDefaults() tokenExchangeOptions {
	return tokenExchangeOptions{}
}

func getTokenExchangeOpts(opt ...Option) tokenExchangeOptions {
	opts := tokenExchangeDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithRequireTokens makes NewTokenExchangeRequest reject an empty actor or
// subject token, the same way required logout fields are checked.
func WithRequireTokens() Option {
	return func(o interface{}) {
		if o, ok := o.(*tokenExchangeOptions); ok {
			o.withRequireTokens = true
		}
	}
}
