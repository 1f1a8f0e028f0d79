// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock services
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	storeStatusFn   func(ctx context.Context) (models.StoreStatusResponse, error)
	registerUserFn  func(ctx context.Context, request models.RegisterRequest) (models.User, error)
	loginFn         func(ctx context.Context, request models.LoginRequest) (models.User, error)
	resetPasswordFn func(ctx context.Context, request models.ResetPasswordRequest) error
	getProfileFn    func(ctx context.Context, userID string) (models.User, error)
	updateProfileFn func(ctx context.Context, actor models.User, request models.ProfileUpdateRequest) (models.User, error)
	createTokenFn   func(ctx context.Context, user models.User) (models.Token, error)
	authenticateFn  func(ctx context.Context, tokenString string) (models.User, error)
}

func (m *mockAuthService) StoreStatus(ctx context.Context) (models.StoreStatusResponse, error) {
	return m.storeStatusFn(ctx)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	return m.registerUserFn(ctx, request)
}

func (m *mockAuthService) Login(ctx context.Context, request models.LoginRequest) (models.User, error) {
	return m.loginFn(ctx, request)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {
	return m.resetPasswordFn(ctx, request)
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, actor models.User, request models.ProfileUpdateRequest) (models.User, error) {
	return m.updateProfileFn(ctx, actor, request)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(_ context.Context, tokenString string) (models.Token, error) {
	return models.Token{SignedString: tokenString}, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	return m.authenticateFn(ctx, tokenString)
}

type mockTaskService struct {
	listTasksFn        func(ctx context.Context, actor models.User, targetUserID string) (models.TaskListResponse, error)
	createTaskFn       func(ctx context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error)
	updateTaskStatusFn func(ctx context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error)
}

func (m *mockTaskService) ListTasks(ctx context.Context, actor models.User, targetUserID string) (models.TaskListResponse, error) {
	return m.listTasksFn(ctx, actor, targetUserID)
}

func (m *mockTaskService) CreateTask(ctx context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error) {
	return m.createTaskFn(ctx, actor, request)
}

func (m *mockTaskService) UpdateTaskStatus(ctx context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error) {
	return m.updateTaskStatusFn(ctx, actor, taskID, request)
}

type mockTeamService struct {
	snapshotFn func(ctx context.Context) ([]models.TeamMemberSummary, error)
}

func (m *mockTeamService) Snapshot(ctx context.Context) ([]models.TeamMemberSummary, error) {
	return m.snapshotFn(ctx)
}

type mockHealthService struct {
	err error
}

func (m *mockHealthService) Check(context.Context) error {
	return m.err
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var (
	testAdmin = models.User{
		ID:        "admin-1",
		Name:      "Admin",
		Email:     "admin@example.com",
		Role:      models.RoleAdmin,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	testEmployee = models.User{
		ID:        "emp-1",
		Name:      "Employee One",
		Email:     "e1@example.com",
		Role:      models.RoleEmployee,
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
)

// newTestHandler builds a Handler whose services are the given mocks.
// Missing services are left nil.
func newTestHandler(t *testing.T, services *service.Services) *Handler {
	t.Helper()
	if services.AppInfoService == nil {
		services.AppInfoService = &mockAppInfoService{version: "test"}
	}
	return NewHandler(services, config.Server{}, logger.Nop())
}

// tokenAuth returns a mock that accepts the given tokens, each mapped to a
// user.
func tokenAuth(users map[string]models.User) *mockAuthService {
	return &mockAuthService{
		authenticateFn: func(_ context.Context, tokenString string) (models.User, error) {
			user, ok := users[tokenString]
			if !ok {
				return models.User{}, service.ErrUnauthenticated
			}
			return user, nil
		},
	}
}

// withActor puts user into the request context as the auth middleware does.
func withActor(r *http.Request, user models.User) *http.Request {
	return r.WithContext(utils.WithUser(r.Context(), user))
}

func jsonBody(t *testing.T, v any) *strings.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeResponse[models.MessageResponse](t, rec).Message
}
