package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskService implements the task lifecycle. Tasks are owned by exactly one
// user and addressed by (owner, task id); there is no global task lookup.
type taskService struct {
	userRepository store.UserRepository
	taskRepository store.TaskRepository

	idGenerator utils.IDGenerator
	now         func() time.Time

	logger *logger.Logger
}

func NewTaskService(userRepository store.UserRepository, taskRepository store.TaskRepository, logger *logger.Logger) TaskService {
	return &taskService{
		userRepository: userRepository,
		taskRepository: taskRepository,
		idGenerator:    utils.NewUUIDGenerator(),
		now:            func() time.Time { return time.Now().UTC() },
		logger:         logger,
	}
}

// ListTasks returns the tasks of the resolved scope: targetUserID when an
// admin asks for it, otherwise the actor.
func (s *taskService) ListTasks(ctx context.Context, actor models.User, targetUserID string) (models.TaskListResponse, error) {
	scope := resolveScope(actor, targetUserID)

	owner, err := s.userRepository.FindUserByID(ctx, scope)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.TaskListResponse{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "taskService.ListTasks").Str("scope", scope).Msg("failed to load task owner")
		return models.TaskListResponse{}, fmt.Errorf("failed to load task owner: %w", err)
	}

	tasks := owner.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}

	return models.TaskListResponse{Owner: owner.Public(), Tasks: tasks}, nil
}

// CreateTask appends a new task to the employee's list. Only admins may
// create tasks.
func (s *taskService) CreateTask(ctx context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error) {
	log := logger.FromContext(ctx)

	if err := Authorize(actor, models.RoleAdmin); err != nil {
		return models.Task{}, err
	}

	dueDate, err := validators.ParseDueDate(request.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	status := request.Status
	if status == "" {
		status = models.StatusNew
	}

	now := s.now()
	task := models.Task{
		ID:          s.idGenerator.Generate(),
		Title:       strings.TrimSpace(request.Title),
		Description: strings.TrimSpace(request.Description),
		Status:      status,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.taskRepository.AppendTask(ctx, request.EmployeeID, task)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Task{}, fmt.Errorf("%w: %w", ErrEmployeeNotFound, err)
		}
		log.Err(err).Str("func", "taskService.CreateTask").Str("employee_id", request.EmployeeID).Msg("failed to append task")
		return models.Task{}, fmt.Errorf("failed to append task: %w", err)
	}

	log.Info().
		Str("func", "taskService.CreateTask").
		Str("employee_id", request.EmployeeID).
		Str("task_id", created.ID).
		Msg("task created")

	return created, nil
}

// UpdateTaskStatus sets the status of one task of the resolved scope. Any
// status may follow any other. A task id owned by somebody else is reported
// as not found.
func (s *taskService) UpdateTaskStatus(ctx context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error) {
	log := logger.FromContext(ctx)
	scope := resolveScope(actor, request.EmployeeID)

	if taskID == "" {
		return models.Task{}, ErrTaskNotFound
	}

	task, err := s.taskRepository.SetTaskStatus(ctx, scope, taskID, request.Status, s.now())
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return models.Task{}, s.taskNotFound(ctx, actor, scope, err)
		}
		log.Err(err).Str("func", "taskService.UpdateTaskStatus").Str("scope", scope).Str("task_id", taskID).Msg("failed to update task status")
		return models.Task{}, fmt.Errorf("failed to update task status: %w", err)
	}

	log.Info().
		Str("func", "taskService.UpdateTaskStatus").
		Str("scope", scope).
		Str("task_id", taskID).
		Str("status", string(task.Status)).
		Msg("task status updated")

	return task, nil
}

// taskNotFound tells a missing scope user apart from a missing task. The
// actor itself always exists, so only admin-chosen scopes are looked up.
func (s *taskService) taskNotFound(ctx context.Context, actor models.User, scope string, cause error) error {
	if scope != actor.ID {
		_, err := s.userRepository.FindUserByID(ctx, scope)
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrTaskNotFound, cause)
}

func resolveScope(actor models.User, target string) string {
	if actor.IsAdmin() && target != "" {
		return target
	}
	return actor.ID
}
