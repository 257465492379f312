// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// nativesso builds the client side messages of OpenID Connect Native SSO for
// mobile apps: the token exchange request that trades a device secret and an
// id_token for new tokens, and the logout redirect sent to the provider's end
// session endpoint.
//
// The messages live in package oidc, pending logouts are persisted with
// package oidc/pending, and cmd/nativesso is a small cli over both.
package nativesso
