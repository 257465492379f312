// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import "encoding/json"

// DeviceSecret is an opaque credential bound to a device session.  It's
// returned alongside an id_token when the device_sso scope was requested.
type DeviceSecret string

// RedactedDeviceSecret is the redacted string or json for a device_secret
const RedactedDeviceSecret = "[REDACTED: device_secret]"

// String will redact the secret
func (s DeviceSecret) String() string {
	return RedactedDeviceSecret
}

// MarshalJSON will redact the secret
func (s DeviceSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedDeviceSecret)
}
