// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProvider is a minimal provider for tests.  It serves discovery metadata
// and records the token requests it receives.  It's stopped when the test
// completes.
type TestProvider struct {
	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	tokenRequests []url.Values
	tokenHeaders  []http.Header
}

// StartTestProvider starts a TestProvider, with TLS when withTLS is true.
func StartTestProvider(t *testing.T, withTLS bool) *TestProvider {
	t.Helper()
	p := &TestProvider{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", p.wellKnownHandler)
	mux.HandleFunc("/token", p.tokenHandler)
	if withTLS {
		p.server = httptest.NewTLSServer(mux)
	} else {
		p.server = httptest.NewServer(mux)
	}
	t.Cleanup(p.server.Close)
	return p
}

// Addr returns the provider's base url, which is also its issuer.
func (p *TestProvider) Addr() string { return p.server.URL }

// CACert returns the PEM encoded cert of a TLS provider, or "" when TLS isn't
// in use.
func (p *TestProvider) CACert() string {
	c := p.server.Certificate()
	if c == nil {
		return ""
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Raw}))
}

// ProviderConfig returns the metadata the provider serves.
func (p *TestProvider) ProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Issuer:                p.Addr(),
		AuthorizationEndpoint: p.Addr() + "/authorize",
		TokenEndpoint:         p.Addr() + "/token",
		EndSessionEndpoint:    p.Addr() + "/logout",
		RevocationEndpoint:    p.Addr() + "/revoke",
		UserInfoEndpoint:      p.Addr() + "/userinfo",
	}
}

// TokenRequests returns the forms of the token requests received so far.
func (p *TestProvider) TokenRequests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.tokenRequests...)
}

// TokenHeaders returns the headers of the token requests received so far.
func (p *TestProvider) TokenHeaders() []http.Header {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]http.Header(nil), p.tokenHeaders...)
}

func (p *TestProvider) wellKnownHandler(w http.ResponseWriter, _ *http.Request) {
	pc := p.ProviderConfig()
	doc := map[string]interface{}{
		"issuer":                 pc.Issuer,
		"authorization_endpoint": pc.AuthorizationEndpoint,
		"token_endpoint":         pc.TokenEndpoint,
		"end_session_endpoint":   pc.EndSessionEndpoint,
		"revocation_endpoint":    pc.RevocationEndpoint,
		"userinfo_endpoint":      pc.UserInfoEndpoint,
		"jwks_uri":               p.Addr() + "/.well-known/jwks.json",
		"grant_types_supported":  []string{"authorization_code", "refresh_token", GrantTypeTokenExchange},
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	assert.NoError(p.t, json.NewEncoder(w).Encode(doc))
}

func (p *TestProvider) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	p.tokenRequests = append(p.tokenRequests, r.PostForm)
	p.tokenHeaders = append(p.tokenHeaders, r.Header.Clone())
	p.mu.Unlock()

	w.Header().Set("Content-Type", ContentTypeJSON)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "test-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}
