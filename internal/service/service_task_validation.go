package service

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// TaskServiceWrapper decorates a TaskService, e.g. with request validation.
type TaskServiceWrapper interface {
	Wrap(TaskService) TaskService
}

// TaskValidationService validates request bodies before they reach the
// wrapped TaskService.
type TaskValidationService struct {
	inner     TaskService
	validator validators.Validator
}

func NewTaskValidationService() TaskServiceWrapper {
	return &TaskValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *TaskValidationService) ListTasks(ctx context.Context, actor models.User, targetUserID string) (models.TaskListResponse, error) {
	return v.inner.ListTasks(ctx, actor, targetUserID)
}

// CreateTask checks the role before the body so that non-admins always get
// ErrForbidden.
func (v *TaskValidationService) CreateTask(ctx context.Context, actor models.User, request models.CreateTaskRequest) (models.Task, error) {
	if err := Authorize(actor, models.RoleAdmin); err != nil {
		return models.Task{}, err
	}
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.Task{}, err
	}
	return v.inner.CreateTask(ctx, actor, request)
}

func (v *TaskValidationService) UpdateTaskStatus(ctx context.Context, actor models.User, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.Task{}, err
	}
	return v.inner.UpdateTaskStatus(ctx, actor, taskID, request)
}

func (v *TaskValidationService) Wrap(inner TaskService) TaskService {
	v.inner = inner
	return v
}
