// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"
	"net/url"
	"strings"
)

// Params is an insertion ordered set of request parameters.  Each key may be
// set exactly once.  The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]string
}

// set adds a parameter, returning ErrDuplicateParameter if name was already
// set.
func (p *Params) set(name, value string) error {
	const op = "Params.set"
	if p.values == nil {
		p.values = map[string]string{}
	}
	if _, ok := p.values[name]; ok {
		return fmt.Errorf("%s: %q: %w", op, name, ErrDuplicateParameter)
	}
	p.keys = append(p.keys, name)
	p.values[name] = value
	return nil
}

// Get returns the value of a parameter and whether it was set.
func (p Params) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Keys returns the parameter names in the order they were set.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.keys)
}

// Map returns a fresh copy of the parameters as a map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		m[k] = p.values[k]
	}
	return m
}

// Values returns a fresh copy of the parameters as url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		v.Set(k, p.values[k])
	}
	return v
}

// Encode returns the parameters in "URL encoded" form, in the order they
// were set.  It's suitable for both a form body and a query string.
func (p Params) Encode() string {
	var b strings.Builder
	for _, k := range p.keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// FilterScopes joins the scopes with a single space and then removes every
// occurrence of "device_sso" from the result.  The removal is a plain
// substring removal: the spaces around a removed scope are left behind, and
// a scope that merely contains "device_sso" is altered too.  Providers
// depend on this exact output.
func FilterScopes(scopes []string) string {
	return strings.ReplaceAll(strings.Join(scopes, " "), ScopeDeviceSSO, "")
}

// NewTokenExchangeParams returns the body parameters of a token exchange
// request.  Every parameter is always present, even when its value is empty.
func NewTokenExchangeParams(clientID, grantType, actorToken, subjectToken, scope, audience string) (Params, error) {
	const op = "oidc.NewTokenExchangeParams"
	var p Params
	for _, kv := range [][2]string{
		{ParamClientID, clientID},
		{ParamGrantType, grantType},
		{ParamActorToken, actorToken},
		{ParamActorTokenType, ActorTokenTypeDeviceSecret},
		{ParamSubjectToken, subjectToken},
		{ParamSubjectTokenType, SubjectTokenTypeIDToken},
		{ParamScope, scope},
		{ParamAudience, audience},
	} {
		if err := p.set(kv[0], kv[1]); err != nil {
			return Params{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return p, nil
}

// appendOptional adds name to p only when value is non-nil.  A non-nil empty
// value is still added.
func appendOptional(p *Params, name string, value *string) error {
	if value == nil {
		return nil
	}
	return p.set(name, *value)
}
