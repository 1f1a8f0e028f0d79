package service

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService owns accounts and tokens: store bootstrap state, registration,
// login, password reset, the caller's own profile and the token guard.
type AuthService interface {
	StoreStatus(ctx context.Context) (models.StoreStatusResponse, error)

	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, request models.LoginRequest) (models.User, error)
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error

	GetProfile(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, actor models.User, request models.ProfileUpdateRequest) (models.User, error)

	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// Authenticate resolves a raw token to the current state of its user.
	// A missing or invalid token, or a subject that no longer exists, is
	// reported as ErrUnauthenticated. Store failures are returned as is.
	Authenticate(ctx context.Context, tokenString string) (models.User, error)
}

// TaskService is the task lifecycle engine. actor is always an
// authenticated user.
type TaskService interface {
	ListTasks(ctx context.Context, actor models.User, targetUserID string) (models.TaskListResponse, error)
	CreateTask(ctx context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error)
}

type TeamService interface {
	// Snapshot returns per-status task counters of every employee.
	Snapshot(ctx context.Context) ([]models.TeamMemberSummary, error)
}

type SeedService interface {
	// Seed replaces the whole store with the sample accounts. Every account
	// gets the same password and recovery secret.
	Seed(ctx context.Context, password, secretKey string) ([]models.User, error)
}

type HealthService interface {
	Check(ctx context.Context) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
