// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role,omitempty"`
	SecretKey string `json:"secretKey"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	SecretKey   string `json:"secretKey"`
}

// ProfileUpdateRequest is the body of PUT /api/auth/me. Empty fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	SecretKey string `json:"secretKey,omitempty"`
}

// CreateTaskRequest is the body of POST /api/tasks.
//
// DueDate accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD date.
type CreateTaskRequest struct {
	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

// UpdateTaskStatusRequest is the body of PATCH /api/tasks/{taskId}.
// EmployeeID is honoured only for admins.
type UpdateTaskStatusRequest struct {
	Status     TaskStatus `json:"status"`
	EmployeeID string     `json:"employeeId,omitempty"`
}
