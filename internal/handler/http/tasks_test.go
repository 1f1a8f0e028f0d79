// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTask = models.Task{
	ID:        "task-1",
	Title:     "Prepare report",
	Status:    models.StatusNew,
	CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	UpdatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
}

// withTaskID sets the chi URL parameter the way the router does.
func withTaskID(r *http.Request, taskID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("taskId", taskID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ─────────────────────────────────────────────
// listTasks
// ─────────────────────────────────────────────

func TestListTasks(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		listErr    error
		wantTarget string
		wantStatus int
	}{
		{name: "own tasks", url: "/api/tasks", wantStatus: http.StatusOK},
		{name: "target passed through", url: "/api/tasks?userId=emp-2", wantTarget: "emp-2", wantStatus: http.StatusOK},
		{name: "unknown target", url: "/api/tasks?userId=ghost", wantTarget: "ghost", listErr: fmt.Errorf("%w: %w", service.ErrUserNotFound, store.ErrUserNotFound), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{TaskService: &mockTaskService{
				listTasksFn: func(_ context.Context, actor models.User, target string) (models.TaskListResponse, error) {
					assert.Equal(t, testAdmin.ID, actor.ID)
					assert.Equal(t, tt.wantTarget, target)
					if tt.listErr != nil {
						return models.TaskListResponse{}, tt.listErr
					}
					return models.TaskListResponse{Owner: testEmployee.Public(), Tasks: []models.Task{testTask}}, nil
				},
			}})

			rec := httptest.NewRecorder()
			h.listTasks(rec, withActor(httptest.NewRequest(http.MethodGet, tt.url, nil), testAdmin))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.listErr != nil {
				assert.Equal(t, "User not found", responseMessage(t, rec))
				return
			}
			response := decodeResponse[models.TaskListResponse](t, rec)
			assert.Equal(t, testEmployee.ID, response.Owner.ID)
			require.Len(t, response.Tasks, 1)
			assert.Equal(t, testTask.ID, response.Tasks[0].ID)
		})
	}
}

// ─────────────────────────────────────────────
// createTask
// ─────────────────────────────────────────────

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		createErr   error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "created",
			body:        `{"employeeId":"emp-1","title":"Prepare report","dueDate":"2026-03-20"}`,
			wantStatus:  http.StatusCreated,
			wantMessage: msgTaskCreated,
		},
		{
			name:        "missing title",
			body:        `{"employeeId":"emp-1"}`,
			createErr:   validators.ErrEmployeeAndTitleRequired,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Employee and title are required",
		},
		{
			name:        "unknown employee",
			body:        `{"employeeId":"ghost","title":"x"}`,
			createErr:   fmt.Errorf("%w: %w", service.ErrEmployeeNotFound, store.ErrUserNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Employee not found",
		},
		{
			name:        "not an admin",
			body:        `{"employeeId":"emp-1","title":"x"}`,
			createErr:   service.ErrForbidden,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden: insufficient permissions",
		},
		{
			name:        "broken body",
			body:        `[`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{TaskService: &mockTaskService{
				createTaskFn: func(_ context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error) {
					assert.Equal(t, testAdmin.ID, actor.ID)
					if tt.createErr != nil {
						return models.Task{}, tt.createErr
					}
					assert.Equal(t, "emp-1", request.EmployeeID)
					assert.Equal(t, "2026-03-20", request.DueDate)
					return testTask, nil
				},
			}})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(tt.body))
			h.createTask(rec, withActor(req, testAdmin))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusCreated {
				assert.Equal(t, tt.wantMessage, responseMessage(t, rec))
				return
			}
			response := decodeResponse[models.TaskResponse](t, rec)
			assert.Equal(t, tt.wantMessage, response.Message)
			assert.Equal(t, testTask.ID, response.Task.ID)
		})
	}
}

// ─────────────────────────────────────────────
// updateTaskStatus
// ─────────────────────────────────────────────

func TestUpdateTaskStatus(t *testing.T) {
	tests := []struct {
		name        string
		updateErr   error
		wantStatus  int
		wantMessage string
	}{
		{name: "updated", wantStatus: http.StatusOK, wantMessage: msgTaskStatusUpdated},
		{name: "invalid status", updateErr: validators.ErrInvalidStatus, wantStatus: http.StatusBadRequest, wantMessage: "Status must be one of: new, active, completed, failed"},
		{name: "task not found", updateErr: fmt.Errorf("%w: %w", service.ErrTaskNotFound, store.ErrTaskNotFound), wantStatus: http.StatusNotFound, wantMessage: "Task not found"},
		{name: "owner not found", updateErr: fmt.Errorf("%w: %w", service.ErrUserNotFound, store.ErrUserNotFound), wantStatus: http.StatusNotFound, wantMessage: "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{TaskService: &mockTaskService{
				updateTaskStatusFn: func(_ context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error) {
					assert.Equal(t, testEmployee.ID, actor.ID)
					assert.Equal(t, testTask.ID, taskID)
					assert.Equal(t, models.StatusActive, request.Status)
					if tt.updateErr != nil {
						return models.Task{}, tt.updateErr
					}
					updated := testTask
					updated.Status = request.Status
					return updated, nil
				},
			}})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/tasks/"+testTask.ID, strings.NewReader(`{"status":"active"}`))
			h.updateTaskStatus(rec, withTaskID(withActor(req, testEmployee), testTask.ID))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.updateErr != nil {
				assert.Equal(t, tt.wantMessage, responseMessage(t, rec))
				return
			}
			response := decodeResponse[models.TaskResponse](t, rec)
			assert.Equal(t, tt.wantMessage, response.Message)
			assert.Equal(t, models.StatusActive, response.Task.Status)
		})
	}
}

// ─────────────────────────────────────────────
// teamSnapshot
// ─────────────────────────────────────────────

func TestTeamSnapshot(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler(t, &service.Services{TeamService: &mockTeamService{
			snapshotFn: func(context.Context) ([]models.TeamMemberSummary, error) {
				return []models.TeamMemberSummary{{UserID: "emp-1", Name: "Employee One", NewTask: 1, Completed: 2, Total: 3}}, nil
			},
		}})

		rec := httptest.NewRecorder()
		h.teamSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/team/snapshot", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		response := decodeResponse[models.TeamSnapshotResponse](t, rec)
		require.Len(t, response.Team, 1)
		assert.Equal(t, 3, response.Team[0].Total)
	})

	t.Run("store failure", func(t *testing.T) {
		h := newTestHandler(t, &service.Services{TeamService: &mockTeamService{
			snapshotFn: func(context.Context) ([]models.TeamMemberSummary, error) {
				return nil, errors.New("boom")
			},
		}})

		rec := httptest.NewRecorder()
		h.teamSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/team/snapshot", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, msgInternalError, responseMessage(t, rec))
	})
}
