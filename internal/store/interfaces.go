// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the credential store: accounts keyed by id and by
// case-insensitive unique email. Every read returns the user's tasks in
// insertion order.
type UserRepository interface {
	// CreateUser persists a new account. When the store holds no users the
	// account is created as admin regardless of user.Role; the returned user
	// carries the role that was actually stored. Returns
	// [ErrEmailAlreadyExists] on email collision.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns [ErrUserNotFound] when no account matches.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID returns [ErrUserNotFound] when no account matches.
	FindUserByID(ctx context.Context, id string) (models.User, error)

	// UpdateUser applies a partial update and returns the updated account.
	// Returns [ErrUserNotFound] or [ErrEmailAlreadyExists].
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)

	// HasUsers reports whether at least one account exists.
	HasUsers(ctx context.Context) (bool, error)

	// ListUsersByRole returns every account with the given role in store
	// iteration order (creation order).
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// TaskRepository manages the tasks embedded in a user's task list.
type TaskRepository interface {
	// AppendTask adds task to the end of the user's task list.
	// Returns [ErrUserNotFound] when the user does not exist.
	AppendTask(ctx context.Context, userID string, task models.Task) (models.Task, error)

	// SetTaskStatus replaces the status of one task of the user and stamps
	// its update time. Returns [ErrTaskNotFound] when the user has no such
	// task.
	SetTaskStatus(ctx context.Context, userID, taskID string, status models.TaskStatus, at time.Time) (models.Task, error)
}

// SeedRepository replaces the whole content of the store.
type SeedRepository interface {
	// ResetUsers deletes every account and task and inserts users together
	// with their tasks, atomically where the backend supports it.
	ResetUsers(ctx context.Context, users []models.User) error
}

// HealthChecker reports whether the backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
