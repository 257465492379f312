// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
oidc is a package for building the OIDC messages of a native (device) SSO
flow.

Primary types provided by the package

* Config: the relying party configuration (client id, scopes, audience,
end session redirect).

* ProviderConfig: the provider's endpoints, either static or discovered with
DiscoverProviderConfig.

* Token: the id_token and optional device_secret from an earlier token
response.

* TokenExchangeRequest: a back-channel token exchange request, for example
exchanging a device secret and id_token for new tokens.  It describes the
request (method, url, headers, form body) but never sends it.

* LogoutRequest: a front-channel end session request.  Its RedirectURL is
where the browser should be sent, and it can be serialized and restored
while the browser is away.

The oidc/pending package

The pending package stores a serialized LogoutRequest under its Key() so
the flow can be resumed after the browser returns.
*/
package oidc
