// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrNilParameter         = errors.New("nil parameter")
	ErrMissingField         = errors.New("missing required field")
	ErrMalformedEndpoint    = errors.New("malformed endpoint")
	ErrDuplicateParameter   = errors.New("duplicate parameter")
	ErrInvalidCACert        = errors.New("invalid CA certificate")
	ErrStateGeneratorFailed = errors.New("state generation failed")
	ErrDiscoveryFailed      = errors.New("provider discovery failed")
	ErrMissingIDToken       = errors.New("id_token is missing")
	ErrNotFound             = errors.New("not found")
)

// MissingFieldError is returned when a request is finalized while one of its
// required fields is empty.  Field is the wire name of the parameter (for
// example "post_logout_redirect_uri").
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

// Is supports errors.Is(err, ErrMissingField)
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missingField(name string) error {
	return &MissingFieldError{Field: name}
}
