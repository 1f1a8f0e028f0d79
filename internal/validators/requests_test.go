// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:      "Ann",
		Email:     "ann@example.com",
		Password:  "pwd",
		SecretKey: "s3cret",
	}
}

func validCreateTaskRequest() models.CreateTaskRequest {
	return models.CreateTaskRequest{
		EmployeeID: "user-1",
		Title:      "Write report",
	}
}

// ---------------------------------------------------------------------------
// ValidationError
// ---------------------------------------------------------------------------

func TestValidationError_MatchesErrValidation(t *testing.T) {
	err := error(ErrPasswordTooShort)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrPasswordTooShort))
	assert.False(t, errors.Is(err, ErrSecretKeyTooShort))
	assert.Equal(t, "Password must be at least 3 characters", err.Error())

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, FieldPassword, vErr.Field)
}

func TestValidate_UnsupportedType(t *testing.T) {
	err := NewRequestValidator().Validate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestValidate_UnknownField(t *testing.T) {
	err := NewRequestValidator().Validate(context.Background(), validRegisterRequest(), "nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestValidate_RegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *models.RegisterRequest) {}},
		{name: "valid with admin role", mutate: func(r *models.RegisterRequest) { r.Role = models.RoleAdmin }},
		{name: "missing email", mutate: func(r *models.RegisterRequest) { r.Email = "  " }, wantErr: ErrEmailAndPasswordRequired},
		{name: "missing password", mutate: func(r *models.RegisterRequest) { r.Password = "" }, wantErr: ErrEmailAndPasswordRequired},
		{name: "short password", mutate: func(r *models.RegisterRequest) { r.Password = "ab" }, wantErr: ErrPasswordTooShort},
		{name: "password at bcrypt limit", mutate: func(r *models.RegisterRequest) { r.Password = strings.Repeat("p", 72) }},
		{name: "password over bcrypt limit", mutate: func(r *models.RegisterRequest) { r.Password = strings.Repeat("p", 73) }, wantErr: ErrPasswordTooLong},
		{name: "missing secret", mutate: func(r *models.RegisterRequest) { r.SecretKey = "   " }, wantErr: ErrSecretKeyRequired},
		{name: "short trimmed secret", mutate: func(r *models.RegisterRequest) { r.SecretKey = " ab " }, wantErr: ErrSecretKeyTooShort},
		{name: "unknown role", mutate: func(r *models.RegisterRequest) { r.Role = "owner" }, wantErr: ErrInvalidRole},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			err := v.Validate(context.Background(), &req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

// ---------------------------------------------------------------------------
// Login / reset password
// ---------------------------------------------------------------------------

func TestValidate_LoginRequest(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"}))
	assert.ErrorIs(t, v.Validate(context.Background(), models.LoginRequest{Password: "x"}), ErrEmailAndPasswordRequired)
	assert.ErrorIs(t, v.Validate(context.Background(), models.LoginRequest{Email: "a@b.c"}), ErrEmailAndPasswordRequired)
}

func TestValidate_ResetPasswordRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ResetPasswordRequest
		wantErr error
	}{
		{name: "valid", req: models.ResetPasswordRequest{Email: "a@b.c", NewPassword: "abc", SecretKey: "key"}},
		{name: "missing email", req: models.ResetPasswordRequest{NewPassword: "abc", SecretKey: "key"}, wantErr: ErrEmailRequired},
		{name: "missing new password", req: models.ResetPasswordRequest{Email: "a@b.c", SecretKey: "key"}, wantErr: ErrNewPasswordRequired},
		{name: "short new password", req: models.ResetPasswordRequest{Email: "a@b.c", NewPassword: "ab", SecretKey: "key"}, wantErr: ErrPasswordTooShort},
		{name: "long new password", req: models.ResetPasswordRequest{Email: "a@b.c", NewPassword: strings.Repeat("p", 80), SecretKey: "key"}, wantErr: ErrPasswordTooLong},
		{name: "missing secret", req: models.ResetPasswordRequest{Email: "a@b.c", NewPassword: "abc", SecretKey: " "}, wantErr: ErrSecretKeyRequired},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// Profile update
// ---------------------------------------------------------------------------

func TestValidate_ProfileUpdateRequest(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(context.Background(), models.ProfileUpdateRequest{}))
	assert.NoError(t, v.Validate(context.Background(), models.ProfileUpdateRequest{Name: "New", Password: "abcd", SecretKey: "key"}))
	assert.ErrorIs(t, v.Validate(context.Background(), models.ProfileUpdateRequest{Email: "   "}), ErrEmailBlank)
	assert.ErrorIs(t, v.Validate(context.Background(), models.ProfileUpdateRequest{Password: "ab"}), ErrPasswordTooShort)
	assert.ErrorIs(t, v.Validate(context.Background(), models.ProfileUpdateRequest{Password: strings.Repeat("p", 80)}), ErrPasswordTooLong)
	assert.ErrorIs(t, v.Validate(context.Background(), models.ProfileUpdateRequest{SecretKey: "  k  "}), ErrSecretKeyTooShort)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func TestValidate_CreateTaskRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.CreateTaskRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *models.CreateTaskRequest) {}},
		{name: "valid with date", mutate: func(r *models.CreateTaskRequest) { r.DueDate = "2026-01-15" }},
		{name: "valid with timestamp", mutate: func(r *models.CreateTaskRequest) { r.DueDate = "2026-01-15T10:00:00Z" }},
		{name: "valid with status", mutate: func(r *models.CreateTaskRequest) { r.Status = models.StatusActive }},
		{name: "missing employee", mutate: func(r *models.CreateTaskRequest) { r.EmployeeID = "" }, wantErr: ErrEmployeeAndTitleRequired},
		{name: "blank title", mutate: func(r *models.CreateTaskRequest) { r.Title = "   " }, wantErr: ErrEmployeeAndTitleRequired},
		{name: "invalid status", mutate: func(r *models.CreateTaskRequest) { r.Status = "done" }, wantErr: ErrInvalidStatus},
		{name: "invalid due date", mutate: func(r *models.CreateTaskRequest) { r.DueDate = "tomorrow" }, wantErr: ErrInvalidDueDate},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateTaskRequest()
			tt.mutate(&req)

			err := v.Validate(context.Background(), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_UpdateTaskStatusRequest(t *testing.T) {
	v := NewRequestValidator()

	for _, status := range models.AllTaskStatuses {
		assert.NoError(t, v.Validate(context.Background(), models.UpdateTaskStatusRequest{Status: status}))
	}
	assert.ErrorIs(t, v.Validate(context.Background(), models.UpdateTaskStatusRequest{}), ErrStatusRequired)
	assert.ErrorIs(t, v.Validate(context.Background(), models.UpdateTaskStatusRequest{Status: "archived"}), ErrInvalidStatus)
}

// ---------------------------------------------------------------------------
// ParseDueDate
// ---------------------------------------------------------------------------

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDueDate("2026-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDueDate("2026-03-01T12:30:00+02:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)))

	_, err = ParseDueDate("01/03/2026")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}
