// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks incoming requests before they reach the
// services.
//
// A Validator inspects a request value and optionally restricts itself to a
// subset of named fields. Rejections are reported as *ValidationError values
// that match ErrValidation, so the transport layer can map all of them to
// a single client error while still exposing the field-specific message.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
