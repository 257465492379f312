// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// LogoutRequestKey identifies a pending logout in a store.  It's the same for
// every logout request, so a store slot tracks at most one pending logout.
const LogoutRequestKey = "oidc.logout_request"

// LogoutParams are the parameters of an end session (logout) request.
// EndSessionEndpoint, IDTokenHint and PostLogoutRedirectURI are required.
// A nil State or DeviceSecret is left out of the request entirely; a pointer
// to an empty string is sent as an empty parameter.
//
// The json form is the serialized form of a pending logout.
type LogoutParams struct {
	EndSessionEndpoint    string  `json:"end_session_endpoint"`
	IDTokenHint           string  `json:"id_token_hint"`
	PostLogoutRedirectURI string  `json:"post_logout_redirect_uri"`
	State                 *string `json:"state,omitempty"`
	DeviceSecret          *string `json:"device_secret,omitempty"`
}

// clone returns a deep copy of p.
func (p LogoutParams) clone() LogoutParams {
	c := p
	if p.State != nil {
		s := *p.State
		c.State = &s
	}
	if p.DeviceSecret != nil {
		s := *p.DeviceSecret
		c.DeviceSecret = &s
	}
	return c
}

// LogoutRequest is a validated, immutable front-channel logout request.
type LogoutRequest struct {
	params LogoutParams
}

// NewLogoutRequest validates p and returns a LogoutRequest holding its own
// copy of p.  It returns a *MissingFieldError naming the first missing
// required field, or ErrMalformedEndpoint if the end session endpoint isn't
// an absolute url.
func NewLogoutRequest(p LogoutParams) (*LogoutRequest, error) {
	const op = "oidc.NewLogoutRequest"
	if err := ValidateLogoutParams(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := parseEndpoint(p.EndSessionEndpoint); err != nil {
		return nil, fmt.Errorf("%s: end session endpoint %w", op, err)
	}
	return &LogoutRequest{params: p.clone()}, nil
}

// Type returns RequestTypeLogout.
func (r *LogoutRequest) Type() RequestType { return RequestTypeLogout }

// Key returns LogoutRequestKey.
func (r *LogoutRequest) Key() string { return LogoutRequestKey }

// Params returns a copy of the request's parameters.
func (r *LogoutRequest) Params() LogoutParams { return r.params.clone() }

// State returns the request's state, or "" when it has none.
func (r *LogoutRequest) State() string {
	if r.params.State == nil {
		return ""
	}
	return *r.params.State
}

// RedirectURL returns the url the browser should be sent to: the end session
// endpoint with id_token_hint and then, when present, post_logout_redirect_uri,
// state and device_secret appended to its query.  Any query the endpoint
// already carries is kept ahead of them.
func (r *LogoutRequest) RedirectURL() (*url.URL, error) {
	const op = "LogoutRequest.RedirectURL"
	u, err := parseEndpoint(r.params.EndSessionEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: end session endpoint %w", op, err)
	}
	var q Params
	if err := q.set(ParamIDTokenHint, r.params.IDTokenHint); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	redirect := r.params.PostLogoutRedirectURI
	for _, opt := range []struct {
		name  string
		value *string
	}{
		{ParamPostLogoutRedirectURI, &redirect},
		{ParamState, r.params.State},
		{ParamDeviceSecret, r.params.DeviceSecret},
	} {
		if err := appendOptional(&q, opt.name, opt.value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if u.RawQuery != "" {
		u.RawQuery = strings.Join([]string{u.RawQuery, q.Encode()}, "&")
	} else {
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Serialize returns a textual form of the request that can be persisted while
// the browser is away and later handed to RestoreLogoutRequest.  It holds
// only the parameter values.
func (r *LogoutRequest) Serialize() (string, error) {
	const op = "LogoutRequest.Serialize"
	b, err := json.Marshal(r.params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(b), nil
}

// String redacts the id_token_hint and device_secret.
func (r *LogoutRequest) String() string {
	ds := "<none>"
	if r.params.DeviceSecret != nil {
		ds = RedactedDeviceSecret
	}
	return fmt.Sprintf("LogoutRequest{EndSessionEndpoint: %s, PostLogoutRedirectURI: %s, State: %q, IDTokenHint: %s, DeviceSecret: %s}",
		r.params.EndSessionEndpoint, r.params.PostLogoutRedirectURI, r.State(), RedactedIDToken, ds)
}

// DeserializeLogoutParams is the inverse of LogoutRequest.Serialize.  The
// params are returned as they were serialized; they're not validated.
func DeserializeLogoutParams(text string) (LogoutParams, error) {
	const op = "oidc.DeserializeLogoutParams"
	if strings.TrimSpace(text) == "" {
		return LogoutParams{}, fmt.Errorf("%s: serialized logout request is empty: %w", op, ErrInvalidParameter)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	var p LogoutParams
	if err := dec.Decode(&p); err != nil {
		return LogoutParams{}, fmt.Errorf("%s: unable to decode logout request: %w: %w", op, ErrInvalidParameter, err)
	}
	return p, nil
}

// RestoreLogoutRequest deserializes and validates a logout request produced
// by LogoutRequest.Serialize.
func RestoreLogoutRequest(text string) (*LogoutRequest, error) {
	const op = "oidc.RestoreLogoutRequest"
	p, err := DeserializeLogoutParams(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err := NewLogoutRequest(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}
