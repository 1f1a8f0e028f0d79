// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation error")

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
)

var (
	ErrEmailAndPasswordRequired = newValidationError(FieldEmail, "Email and password are required")
	ErrEmailRequired            = newValidationError(FieldEmail, "Email is required")
	ErrEmailBlank               = newValidationError(FieldEmail, "Email cannot be empty")
	ErrPasswordTooShort         = newValidationError(FieldPassword, "Password must be at least 3 characters")
	ErrPasswordTooLong          = newValidationError(FieldPassword, "Password must be at most 72 bytes")
	ErrNewPasswordRequired      = newValidationError(FieldNewPassword, "New password is required")
	ErrSecretKeyRequired        = newValidationError(FieldSecretKey, "Secret key is required")
	ErrSecretKeyTooShort        = newValidationError(FieldSecretKey, "Secret key must be at least 3 characters")
	ErrInvalidRole              = newValidationError(FieldRole, "Role must be admin or employee")
	ErrEmployeeAndTitleRequired = newValidationError(FieldTitle, "Employee and title are required")
	ErrStatusRequired           = newValidationError(FieldStatus, "Status is required")
	ErrInvalidStatus            = newValidationError(FieldStatus, "Status must be one of: new, active, completed, failed")
	ErrInvalidDueDate           = newValidationError(FieldDueDate, "Due date must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
)

// ValidationError describes a rejected input field. Message is safe to show
// to clients.
type ValidationError struct {
	Field   string
	Message string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
