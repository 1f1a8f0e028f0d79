// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// Role determines which operations an account is permitted to perform.
type Role string

const (
	// RoleAdmin may create tasks, address any employee's tasks and read the
	// team snapshot.
	RoleAdmin Role = "admin"

	// RoleEmployee may only read and update the tasks assigned to itself.
	RoleEmployee Role = "employee"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User represents one account together with the tasks assigned to it.
//
// Tasks are owned by value: a task has no identity outside of its owner and
// task identifiers are unique only within a single user's task list.
// PasswordHash and SecretKey are never serialized.
type User struct {
	// ID is the opaque unique identifier of the account.
	ID string `json:"id"`

	// Name is the display name. It falls back to the local part of the email
	// when the user does not provide one.
	Name string `json:"name"`

	// Email is unique across the store and stored in lower case.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// Role is either admin or employee.
	Role Role `json:"role"`

	// SecretKey is the recovery secret used to authorize password resets.
	SecretKey string `json:"-"`

	// Tasks is the ordered list of tasks assigned to the user.
	Tasks []Task `json:"tasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns Name, or the local part of Email when Name is blank.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return EmailLocalPart(u.Email)
}

// Public returns the sanitized view of the user that is safe to send to
// clients.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// PublicUser is the client-facing projection of [User]. It never carries the
// password hash or the recovery secret.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserUpdate is a partial update of a user's profile. Nil fields are left
// untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	SecretKey    *string
}

// IsEmpty reports whether the update carries no changes.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.SecretKey == nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// that lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns the part of the address before the '@' sign.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
