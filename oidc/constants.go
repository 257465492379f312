// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

// Token exchange wire values.  These must match what the identity provider
// expects byte for byte.
// See: https://www.rfc-editor.org/rfc/rfc8693.html
const (
	// GrantTypeTokenExchange is the grant_type of a token exchange request.
	GrantTypeTokenExchange = "urn:ietf:params:oauth:grant-type:token-exchange"

	// ActorTokenTypeDeviceSecret is the actor_token_type used when the actor
	// token is a device secret.
	ActorTokenTypeDeviceSecret = "urn:x-oath:params:oauth:token-type:device-secret"

	// SubjectTokenTypeIDToken is the subject_token_type used when the subject
	// token is an id_token.
	SubjectTokenTypeIDToken = "urn:ietf:params:oauth:token-type:id_token"

	// ScopeDeviceSSO is the scope used to request a device secret.  It is
	// stripped from the scope parameter of token exchange requests.
	ScopeDeviceSSO = "device_sso"
)

// Request parameter names.
const (
	ParamClientID              = "client_id"
	ParamGrantType             = "grant_type"
	ParamActorToken            = "actor_token"
	ParamActorTokenType        = "actor_token_type"
	ParamSubjectToken          = "subject_token"
	ParamSubjectTokenType      = "subject_token_type"
	ParamScope                 = "scope"
	ParamAudience              = "audience"
	ParamIDTokenHint           = "id_token_hint"
	ParamPostLogoutRedirectURI = "post_logout_redirect_uri"
	ParamState                 = "state"
	ParamDeviceSecret          = "device_secret"
	ParamIDToken               = "id_token"

	// fieldEndSessionEndpoint and fieldTokenEndpoint name provider metadata
	// rather than wire parameters; they're used in MissingFieldErrors.
	fieldEndSessionEndpoint = "end_session_endpoint"
	fieldTokenEndpoint      = "token_endpoint"
)

// RequestType tags the kind of request a descriptor represents.
type RequestType string

const (
	RequestTypeTokenExchange RequestType = "token_exchange"
	RequestTypeLogout        RequestType = "logout"
)
