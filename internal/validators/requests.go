// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-task-keeper/models"
)

// Field names accepted by RequestValidator.Validate to scope validation.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "newPassword"
	FieldSecretKey   = "secretKey"
	FieldRole        = "role"
	FieldName        = "name"
	FieldEmployeeID  = "employeeId"
	FieldTitle       = "title"
	FieldStatus      = "status"
	FieldDueDate     = "dueDate"
)

const (
	minPasswordLength  = 3
	minSecretKeyLength = 3

	// bcrypt rejects longer input.
	maxPasswordLength = 72
)

// RequestValidator validates the request bodies of the auth and task
// endpoints.
type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(*value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(*value, fields...)

	case models.ResetPasswordRequest:
		return v.validateResetPasswordRequest(value, fields...)
	case *models.ResetPasswordRequest:
		return v.validateResetPasswordRequest(*value, fields...)

	case models.ProfileUpdateRequest:
		return v.validateProfileUpdateRequest(value, fields...)
	case *models.ProfileUpdateRequest:
		return v.validateProfileUpdateRequest(*value, fields...)

	case models.CreateTaskRequest:
		return v.validateCreateTaskRequest(value, fields...)
	case *models.CreateTaskRequest:
		return v.validateCreateTaskRequest(*value, fields...)

	case models.UpdateTaskStatusRequest:
		return v.validateUpdateTaskStatusRequest(value, fields...)
	case *models.UpdateTaskStatusRequest:
		return v.validateUpdateTaskStatusRequest(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRegisterRequest(request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword, FieldSecretKey, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if isBlank(request.Email) || request.Password == "" {
				return ErrEmailAndPasswordRequired
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmailAndPasswordRequired
			}
			if err := checkPasswordLength(request.Password); err != nil {
				return err
			}
		case FieldSecretKey:
			secret := strings.TrimSpace(request.SecretKey)
			if secret == "" {
				return ErrSecretKeyRequired
			}
			if len(secret) < minSecretKeyLength {
				return ErrSecretKeyTooShort
			}
		case FieldRole:
			if request.Role != "" && !request.Role.IsValid() {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateLoginRequest(request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if isBlank(request.Email) {
				return ErrEmailAndPasswordRequired
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmailAndPasswordRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateResetPasswordRequest(request models.ResetPasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldNewPassword, FieldSecretKey}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if isBlank(request.Email) {
				return ErrEmailRequired
			}
		case FieldNewPassword:
			if request.NewPassword == "" {
				return ErrNewPasswordRequired
			}
			if err := checkPasswordLength(request.NewPassword); err != nil {
				return err
			}
		case FieldSecretKey:
			if isBlank(request.SecretKey) {
				return ErrSecretKeyRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// Empty fields of a profile update mean "leave unchanged", so only the
// provided values are checked.
func (v *RequestValidator) validateProfileUpdateRequest(request models.ProfileUpdateRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword, FieldSecretKey}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if request.Email != "" && isBlank(request.Email) {
				return ErrEmailBlank
			}
		case FieldPassword:
			if request.Password == "" {
				continue
			}
			if err := checkPasswordLength(request.Password); err != nil {
				return err
			}
		case FieldSecretKey:
			if request.SecretKey != "" && len(strings.TrimSpace(request.SecretKey)) < minSecretKeyLength {
				return ErrSecretKeyTooShort
			}
		case FieldName:
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCreateTaskRequest(request models.CreateTaskRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmployeeID, FieldTitle, FieldStatus, FieldDueDate}
	}

	for _, f := range fields {
		switch f {
		case FieldEmployeeID:
			if isBlank(request.EmployeeID) {
				return ErrEmployeeAndTitleRequired
			}
		case FieldTitle:
			if isBlank(request.Title) {
				return ErrEmployeeAndTitleRequired
			}
		case FieldStatus:
			if request.Status != "" && !request.Status.IsValid() {
				return ErrInvalidStatus
			}
		case FieldDueDate:
			if _, err := ParseDueDate(request.DueDate); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateUpdateTaskStatusRequest(request models.UpdateTaskStatusRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldStatus}
	}

	for _, f := range fields {
		switch f {
		case FieldStatus:
			if request.Status == "" {
				return ErrStatusRequired
			}
			if !request.Status.IsValid() {
				return ErrInvalidStatus
			}
		case FieldEmployeeID:
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func checkPasswordLength(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
