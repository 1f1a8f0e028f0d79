package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskRepository is the SQL implementation of [TaskRepository].
type taskRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewTaskRepository constructs a [TaskRepository] backed by db.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	logger.Debug().Msg("creating task repository")
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

// AppendTask inserts task into the user's task list. A missing user is
// reported by the foreign key as [ErrUserNotFound].
func (r *taskRepository) AppendTask(ctx context.Context, userID string, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertTaskQuery(r.db.builder, userID, task)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.AppendTask").Msg("failed to build query")
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "taskRepository.AppendTask").
			Str("user_id", userID).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return models.Task{}, r.db.classify(err, ErrExecutingQuery)
	}

	return task, nil
}

// SetTaskStatus updates the status of the task addressed by (userID, taskID)
// and returns the updated task.
func (r *taskRepository) SetTaskStatus(ctx context.Context, userID, taskID string, status models.TaskStatus, at time.Time) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSetTaskStatusQuery(r.db.builder, userID, taskID, status, at)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.SetTaskStatus").Msg("failed to build query")
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	_, task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).
			Str("func", "taskRepository.SetTaskStatus").
			Str("user_id", userID).
			Str("task_id", taskID).
			Msg("failed to update task status")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadTasks fills the Tasks field of every user with a single query.
func loadTasks(ctx context.Context, db *DB, users []models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	query, args, err := buildSelectTasksQuery(db.builder, ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tasksByUser, err := queryTasks(ctx, db, query, args)
	if err != nil {
		return err
	}

	for i := range users {
		users[i].Tasks = tasksByUser[users[i].ID]
		if users[i].Tasks == nil {
			users[i].Tasks = []models.Task{}
		}
	}

	return nil
}

func queryTasks(ctx context.Context, q queryer, query string, args []any) (map[string][]models.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasksByUser := make(map[string][]models.Task)
	for rows.Next() {
		userID, task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tasksByUser[userID] = append(tasksByUser[userID], task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tasksByUser, nil
}

func scanTask(row rowScanner) (string, models.Task, error) {
	var (
		userID  string
		task    models.Task
		status  string
		dueDate sql.NullTime
	)

	err := row.Scan(
		&userID,
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return "", models.Task{}, err
	}

	task.Status = models.TaskStatus(status)
	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}

	return userID, task, nil
}
