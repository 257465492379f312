// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"fmt"
	"net/url"
)

// ValidateLogoutParams checks the required logout fields in order:
// end_session_endpoint, id_token_hint, then post_logout_redirect_uri.  The
// first empty field is returned as a *MissingFieldError.
func ValidateLogoutParams(p LogoutParams) error {
	switch {
	case p.EndSessionEndpoint == "":
		return missingField(fieldEndSessionEndpoint)
	case p.IDTokenHint == "":
		return missingField(ParamIDTokenHint)
	case p.PostLogoutRedirectURI == "":
		return missingField(ParamPostLogoutRedirectURI)
	}
	return nil
}

// validateTokenExchange checks the fields a token exchange request can't be
// sent without.  The actor and subject tokens are only checked when
// requireTokens is set.
func validateTokenExchange(clientID, tokenEndpoint, actorToken, subjectToken string, requireTokens bool) error {
	switch {
	case clientID == "":
		return missingField(ParamClientID)
	case tokenEndpoint == "":
		return missingField(fieldTokenEndpoint)
	}
	if !requireTokens {
		return nil
	}
	switch {
	case actorToken == "":
		return missingField(ParamActorToken)
	case subjectToken == "":
		return missingField(ParamSubjectToken)
	}
	return nil
}

// parseEndpoint parses an absolute endpoint URL.
func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedEndpoint, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url: %w", raw, ErrMalformedEndpoint)
	}
	return u, nil
}
