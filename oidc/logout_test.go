// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStateFunc(state string) StateFunc {
	return func() (string, error) { return state, nil }
}

func strPtr(s string) *string { return &s }

func TestNewLogoutBuilder(t *testing.T) {
	t.Parallel()
	t.Run("default-state", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		b1, err := NewLogoutBuilder()
		require.NoError(err)
		b2, err := NewLogoutBuilder()
		require.NoError(err)
		require.NotNil(b1.params.State)
		require.NotNil(b2.params.State)
		assert.NotEmpty(*b1.params.State)
		assert.NotEqual(*b1.params.State, *b2.params.State)
	})
	t.Run("WithStateFunc", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		b, err := NewLogoutBuilder(WithStateFunc(testStateFunc("xyz")), WithLogger(hclog.NewNullLogger()))
		require.NoError(err)
		assert.Equal(strPtr("xyz"), b.params.State)
	})
	t.Run("state-func-error", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		b, err := NewLogoutBuilder(WithStateFunc(func() (string, error) {
			return "", ErrStateGeneratorFailed
		}))
		require.Error(err)
		assert.Nil(b)
		assert.Truef(errors.Is(err, ErrStateGeneratorFailed), "wanted \"%s\" but got \"%s\"", ErrStateGeneratorFailed, err)
	})
	t.Run("nil-state-func", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		_, err := NewLogoutBuilder(WithStateFunc(nil))
		require.Error(err)
		assert.Truef(errors.Is(err, ErrNilParameter), "wanted \"%s\" but got \"%s\"", ErrNilParameter, err)
	})
}

func TestLogoutBuilder_setters(t *testing.T) {
	t.Parallel()
	tk := &Token{IDToken: "id-token"}
	secret := DeviceSecret("secret")
	tkWithSecret := &Token{IDToken: "id-token-2", DeviceSecret: &secret}

	tests := []struct {
		name  string
		build func(b *LogoutBuilder) *LogoutBuilder
		want  LogoutParams
	}{
		{
			name: "explicit",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.EndSessionEndpoint("https://e/logout").IDTokenHint("hint").PostLogoutRedirect("app://cb").DeviceSecret("ds")
			},
			want: LogoutParams{
				EndSessionEndpoint:    "https://e/logout",
				IDTokenHint:           "hint",
				PostLogoutRedirectURI: "app://cb",
				State:                 strPtr("generated"),
				DeviceSecret:          strPtr("ds"),
			},
		},
		{
			name: "last-call-wins",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.IDTokenHint("one").IDTokenHint("two").State("s1").State("s2")
			},
			want: LogoutParams{IDTokenHint: "two", State: strPtr("s2")},
		},
		{
			name: "no-state",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.NoState()
			},
			want: LogoutParams{},
		},
		{
			name: "state-after-no-state",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.NoState().State("")
			},
			want: LogoutParams{State: strPtr("")},
		},
		{
			name: "no-device-secret",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.DeviceSecret("ds").NoDeviceSecret()
			},
			want: LogoutParams{State: strPtr("generated")},
		},
		{
			name: "from-all",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.
					FromProviderConfig(&ProviderConfig{EndSessionEndpoint: "https://p/logout"}).
					FromToken(tkWithSecret).
					FromConfig(&Config{EndSessionRedirectURI: "app://done"})
			},
			want: LogoutParams{
				EndSessionEndpoint:    "https://p/logout",
				IDTokenHint:           "id-token-2",
				PostLogoutRedirectURI: "app://done",
				State:                 strPtr("generated"),
				DeviceSecret:          strPtr("secret"),
			},
		},
		{
			name: "from-token-without-secret-clears",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.DeviceSecret("old").FromToken(tk)
			},
			want: LogoutParams{IDTokenHint: "id-token", State: strPtr("generated")},
		},
		{
			name: "from-nil",
			build: func(b *LogoutBuilder) *LogoutBuilder {
				return b.IDTokenHint("keep").FromToken(nil).FromConfig(nil).FromProviderConfig(nil)
			},
			want: LogoutParams{IDTokenHint: "keep", State: strPtr("generated")},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			b, err := NewLogoutBuilder(WithStateFunc(testStateFunc("generated")))
			require.NoError(err)
			got := tt.build(b)
			assert.Same(b, got)
			assert.Equal(tt.want, got.params)
		})
	}
}

func TestLogoutBuilder_Build(t *testing.T) {
	t.Parallel()
	newBuilder := func(t *testing.T) *LogoutBuilder {
		t.Helper()
		b, err := NewLogoutBuilder(WithStateFunc(testStateFunc("xyz")))
		require.NoError(t, err)
		return b
	}
	t.Run("missing-post-logout-redirect", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		r, err := newBuilder(t).
			EndSessionEndpoint("https://example.com/logout").
			IDTokenHint("abc").
			Build()
		require.Error(err)
		assert.Nil(r)
		var mf *MissingFieldError
		require.True(errors.As(err, &mf))
		assert.Equal("post_logout_redirect_uri", mf.Field)
	})
	t.Run("missing-everything", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		_, err := newBuilder(t).Build()
		var mf *MissingFieldError
		require.True(errors.As(err, &mf))
		assert.Equal("end_session_endpoint", mf.Field)
	})
	t.Run("malformed-endpoint", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		r, err := newBuilder(t).
			EndSessionEndpoint("not a url").
			IDTokenHint("abc").
			PostLogoutRedirect("app://callback").
			Build()
		require.Error(err)
		assert.Nil(r)
		assert.Truef(errors.Is(err, ErrMalformedEndpoint), "wanted \"%s\" but got \"%s\"", ErrMalformedEndpoint, err)
	})
	t.Run("built-request-is-independent", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		b := newBuilder(t).
			EndSessionEndpoint("https://example.com/logout").
			IDTokenHint("abc").
			PostLogoutRedirect("app://callback")
		r, err := b.Build()
		require.NoError(err)
		b.IDTokenHint("changed").State("changed")
		assert.Equal("abc", r.Params().IDTokenHint)
		assert.Equal("xyz", r.State())

		p := r.Params()
		*p.State = "mutated"
		assert.Equal("xyz", r.State())
	})
}

func TestLogoutRequest_RedirectURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		params LogoutParams
		want   string
	}{
		{
			name: "no-device-secret",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
				State:                 strPtr("xyz"),
			},
			want: "https://example.com/logout?id_token_hint=abc&post_logout_redirect_uri=app%3A%2F%2Fcallback&state=xyz",
		},
		{
			name: "all",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
				State:                 strPtr("xyz"),
				DeviceSecret:          strPtr("d/s+"),
			},
			want: "https://example.com/logout?id_token_hint=abc&post_logout_redirect_uri=app%3A%2F%2Fcallback&state=xyz&device_secret=d%2Fs%2B",
		},
		{
			name: "no-state",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
			},
			want: "https://example.com/logout?id_token_hint=abc&post_logout_redirect_uri=app%3A%2F%2Fcallback",
		},
		{
			name: "empty-state-is-sent",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
				State:                 strPtr(""),
			},
			want: "https://example.com/logout?id_token_hint=abc&post_logout_redirect_uri=app%3A%2F%2Fcallback&state=",
		},
		{
			name: "endpoint-with-query",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/oauth2/default/v1/logout?tenant=a",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "https://app.example.com/done",
				State:                 strPtr("xyz"),
			},
			want: "https://example.com/oauth2/default/v1/logout?tenant=a&id_token_hint=abc&post_logout_redirect_uri=https%3A%2F%2Fapp.example.com%2Fdone&state=xyz",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			r, err := NewLogoutRequest(tt.params)
			require.NoError(err)
			got, err := r.RedirectURL()
			require.NoError(err)
			assert.Equal(tt.want, got.String())
		})
	}
}

func TestLogoutRequest_Serialize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		params LogoutParams
	}{
		{
			name: "required-only",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
			},
		},
		{
			name: "all",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout?x=1",
				IDTokenHint:           "eyJhbGciOi.eyJzdWIi.c2ln",
				PostLogoutRedirectURI: "app://callback",
				State:                 strPtr("xyz"),
				DeviceSecret:          strPtr("secret \"quoted\" & unicode ✓"),
			},
		},
		{
			name: "empty-optionals",
			params: LogoutParams{
				EndSessionEndpoint:    "https://example.com/logout",
				IDTokenHint:           "abc",
				PostLogoutRedirectURI: "app://callback",
				State:                 strPtr(""),
				DeviceSecret:          strPtr(""),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			r, err := NewLogoutRequest(tt.params)
			require.NoError(err)
			text, err := r.Serialize()
			require.NoError(err)

			got, err := DeserializeLogoutParams(text)
			require.NoError(err)
			assert.Equal(tt.params, got)

			restored, err := RestoreLogoutRequest(text)
			require.NoError(err)
			assert.Equal(r, restored)
		})
	}
	t.Run("wire-names", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		r, err := NewLogoutRequest(LogoutParams{
			EndSessionEndpoint:    "https://example.com/logout",
			IDTokenHint:           "abc",
			PostLogoutRedirectURI: "app://callback",
			State:                 strPtr("xyz"),
		})
		require.NoError(err)
		text, err := r.Serialize()
		require.NoError(err)
		assert.JSONEq(`{
			"end_session_endpoint": "https://example.com/logout",
			"id_token_hint": "abc",
			"post_logout_redirect_uri": "app://callback",
			"state": "xyz"
		}`, text)
	})
}

func TestDeserializeLogoutParams(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		text      string
		wantIsErr error
	}{
		{name: "empty", text: "  ", wantIsErr: ErrInvalidParameter},
		{name: "not-json", text: "end_session_endpoint=x", wantIsErr: ErrInvalidParameter},
		{name: "unknown-field", text: `{"id_token_hint":"a","callback":"x"}`, wantIsErr: ErrInvalidParameter},
		{name: "wrong-type", text: `{"state":1}`, wantIsErr: ErrInvalidParameter},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			_, err := DeserializeLogoutParams(tt.text)
			require.Error(err)
			assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
		})
	}
	t.Run("restore-invalid", func(t *testing.T) {
		t.Parallel()
		assert, require := assert.New(t), require.New(t)
		r, err := RestoreLogoutRequest(`{"end_session_endpoint":"https://example.com/logout","id_token_hint":"abc"}`)
		require.Error(err)
		assert.Nil(r)
		var mf *MissingFieldError
		require.True(errors.As(err, &mf))
		assert.Equal("post_logout_redirect_uri", mf.Field)
	})
}

func TestLogoutRequest_Key(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	var keys []string
	for i := 0; i < 3; i++ {
		b, err := NewLogoutBuilder()
		require.NoError(err)
		r, err := b.
			EndSessionEndpoint(fmt.Sprintf("https://example%d.com/logout", i)).
			IDTokenHint(fmt.Sprintf("hint-%d", i)).
			PostLogoutRedirect("app://callback").
			Build()
		require.NoError(err)
		keys = append(keys, r.Key(), r.Key())
		assert.Equal(RequestTypeLogout, r.Type())
	}
	for _, k := range keys {
		assert.Equal(LogoutRequestKey, k)
	}
}

func TestLogoutRequest_String(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	r, err := NewLogoutRequest(LogoutParams{
		EndSessionEndpoint:    "https://example.com/logout",
		IDTokenHint:           "super-secret-id-token",
		PostLogoutRedirectURI: "app://callback",
		DeviceSecret:          strPtr("super-secret-device-secret"),
	})
	require.NoError(err)
	s := r.String()
	assert.NotContains(s, "super-secret")
	assert.Contains(s, RedactedIDToken)
	assert.Contains(s, RedactedDeviceSecret)
}
