// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the task keeper REST API.
//
// The primary abstraction is [ServerAdapter], which decouples the taskctl
// commands from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the task
// keeper server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	Health(ctx context.Context) (models.HealthResponse, error)
	Version(ctx context.Context) (string, error)
	StoreStatus(ctx context.Context) (models.StoreStatusResponse, error)

	// Register and Login store the issued token via SetToken on success.
	Register(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error

	Profile(ctx context.Context) (models.PublicUser, error)
	UpdateProfile(ctx context.Context, request models.ProfileUpdateRequest) (models.PublicUser, error)

	// ListTasks returns the caller's tasks, or those of userID when the caller
	// is an admin and userID is not empty.
	ListTasks(ctx context.Context, userID string) (models.TaskListResponse, error)
	CreateTask(ctx context.Context, request models.CreateTaskRequest) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error)
	TeamSnapshot(ctx context.Context) ([]models.TeamMemberSummary, error)
}
