package store

import (
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	usersTable = "users"
	tasksTable = "tasks"
)

var userColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"role",
	"secret_key",
	"created_at",
	"updated_at",
}

var taskColumns = []string{
	"user_id",
	"id",
	"title",
	"description",
	"status",
	"due_date",
	"created_at",
	"updated_at",
}

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.SecretKey, user.CreatedAt, user.UpdatedAt).
		ToSql()
}

func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
}

func buildSelectUsersByRoleQuery(b sq.StatementBuilderType, role models.Role) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"role": string(role)}).
		OrderBy("created_at", "id").
		ToSql()
}

func buildHasUsersQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select().
		Column(sq.Expr("EXISTS (SELECT 1 FROM users)")).
		ToSql()
}

// buildUpdateUserQuery sets only the non-nil fields of update. updated_at is
// always stamped so the statement is never empty.
func buildUpdateUserQuery(b sq.StatementBuilderType, id string, update models.UserUpdate, at time.Time) (string, []any, error) {
	query := b.Update(usersTable).Set("updated_at", at)

	if update.Name != nil {
		query = query.Set("name", *update.Name)
	}
	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.PasswordHash != nil {
		query = query.Set("password_hash", *update.PasswordHash)
	}
	if update.SecretKey != nil {
		query = query.Set("secret_key", *update.SecretKey)
	}

	return query.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
}

// buildSelectTasksQuery selects the tasks of the given users in insertion
// order. Task ids are UUIDv7, so the id tie-break keeps that order even for
// equal timestamps.
func buildSelectTasksQuery(b sq.StatementBuilderType, userIDs []string) (string, []any, error) {
	return b.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"user_id": userIDs}).
		OrderBy("user_id", "created_at", "id").
		ToSql()
}

func buildInsertTaskQuery(b sq.StatementBuilderType, userID string, task models.Task) (string, []any, error) {
	return b.Insert(tasksTable).
		Columns(taskColumns...).
		Values(userID, task.ID, task.Title, task.Description, string(task.Status), nullTime(task.DueDate), task.CreatedAt, task.UpdatedAt).
		ToSql()
}

func buildSetTaskStatusQuery(b sq.StatementBuilderType, userID, taskID string, status models.TaskStatus, at time.Time) (string, []any, error) {
	return b.Update(tasksTable).
		Set("status", string(status)).
		Set("updated_at", at).
		Where(sq.Eq{"user_id": userID, "id": taskID}).
		Suffix("RETURNING " + joinColumns(taskColumns)).
		ToSql()
}

func buildDeleteAllQuery(b sq.StatementBuilderType, table string) (string, []any, error) {
	return b.Delete(table).ToSql()
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// lockUsersStatement serializes concurrent registrations on PostgreSQL so
// that only one of them can observe an empty users table.
const lockUsersStatement = "LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE"

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
