// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// ─── helpers ─────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T, dialect Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return newDB(conn, dialect, logger.Nop()), mock
}

func newTestUserRepo(t *testing.T, dialect Dialect) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t, dialect)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func testUser() models.User {
	return models.User{
		ID:           "u-1",
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "hash",
		Role:         models.RoleEmployee,
		SecretKey:    "secret",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

func userRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(userColumns)
	for _, u := range users {
		rows.AddRow(u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.SecretKey, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows(taskColumns)
}

// ─── CreateUser ──────────────────────────────────────────────────────────────

func TestCreateUser_FirstUserBecomesAdmin(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)
	user := testUser()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, string(models.RoleAdmin), user.SecretKey, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.NotNil(t, created.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_KeepsRequestedRoleWhenUsersExist(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)
	user := testUser()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, string(models.RoleEmployee), user.SecretKey, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, created.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_PostgresLocksTable(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec("LOCK TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`INSERT INTO users .* VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8\)`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.CreateUser(context.Background(), testUser())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
	}{
		{name: "postgres", dialect: DialectPostgres, err: pgError(pgerrcode.UniqueViolation)},
		{name: "sqlite", dialect: DialectSQLite, err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t, tt.dialect)

			mock.ExpectBegin()
			if tt.dialect == DialectPostgres {
				mock.ExpectExec("LOCK TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			}
			mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			mock.ExpectExec("INSERT INTO users").WillReturnError(tt.err)
			mock.ExpectRollback()

			_, err := repo.CreateUser(context.Background(), testUser())

			assert.ErrorIs(t, err, ErrEmailAlreadyExists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db network error"))
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), testUser())

	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateUser_BeginError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	_, err := repo.CreateUser(context.Background(), testUser())

	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestCreateUser_CommitError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	_, err := repo.CreateUser(context.Background(), testUser())

	assert.ErrorIs(t, err, ErrCommitingTransaction)
}

// ─── Find ────────────────────────────────────────────────────────────────────

func TestFindUserByEmail_WithTasks(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := testUser()
	due := testNow.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs(user.Email).
		WillReturnRows(userRows(user))
	mock.ExpectQuery(`SELECT .* FROM tasks WHERE user_id IN \(\$1\) ORDER BY user_id, created_at, id`).
		WithArgs(user.ID).
		WillReturnRows(taskRows().
			AddRow(user.ID, "t-1", "First", "", "new", nil, testNow, testNow).
			AddRow(user.ID, "t-2", "Second", "desc", "active", due, testNow, testNow))

	found, err := repo.FindUserByEmail(context.Background(), user.Email)

	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.PasswordHash, found.PasswordHash)
	require.Len(t, found.Tasks, 2)
	assert.Equal(t, "t-1", found.Tasks[0].ID)
	assert.Nil(t, found.Tasks[0].DueDate)
	assert.Equal(t, models.StatusActive, found.Tasks[1].Status)
	require.NotNil(t, found.Tasks[1].DueDate)
	assert.True(t, due.Equal(*found.Tasks[1].DueDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUserByID_ScanError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectQuery("SELECT .* FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	_, err := repo.FindUserByID(context.Background(), "u-1")

	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestFindUserByID_TasksQueryError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)
	user := testUser()

	mock.ExpectQuery("SELECT .* FROM users").WillReturnRows(userRows(user))
	mock.ExpectQuery("SELECT .* FROM tasks").WillReturnError(errors.New("boom"))

	_, err := repo.FindUserByID(context.Background(), user.ID)

	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ─── UpdateUser ──────────────────────────────────────────────────────────────

func TestUpdateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := testUser()
	user.Name = "Anna"
	name := "Anna"

	mock.ExpectQuery(`UPDATE users SET updated_at = \$1, name = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(sqlmock.AnyArg(), name, user.ID).
		WillReturnRows(userRows(user))
	mock.ExpectQuery("SELECT .* FROM tasks").WillReturnRows(taskRows())

	updated, err := repo.UpdateUser(context.Background(), user.ID, models.UserUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)
	assert.Empty(t, updated.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	name := "x"

	mock.ExpectQuery("UPDATE users").WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.UpdateUser(context.Background(), "missing", models.UserUpdate{Name: &name})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	email := "taken@example.com"

	mock.ExpectQuery("UPDATE users").WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateUser(context.Background(), "u-1", models.UserUpdate{Email: &email})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// ─── HasUsers / ListUsersByRole ──────────────────────────────────────────────

func TestHasUsers(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	has, err := repo.HasUsers(context.Background())
	require.NoError(t, err)
	assert.True(t, has)

	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("boom"))
	_, err = repo.HasUsers(context.Background())
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestListUsersByRole_GroupsTasksPerUser(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	first := testUser()
	second := testUser()
	second.ID, second.Email = "u-2", "bob@example.com"

	mock.ExpectQuery(`SELECT .* FROM users WHERE role = \$1 ORDER BY created_at, id`).
		WithArgs(string(models.RoleEmployee)).
		WillReturnRows(userRows(first, second))
	mock.ExpectQuery(`SELECT .* FROM tasks WHERE user_id IN \(\$1,\$2\)`).
		WithArgs("u-1", "u-2").
		WillReturnRows(taskRows().
			AddRow("u-2", "t-3", "Bob task", "", "failed", nil, testNow, testNow).
			AddRow("u-1", "t-1", "Ann task", "", "completed", nil, testNow, testNow))

	users, err := repo.ListUsersByRole(context.Background(), models.RoleEmployee)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-1", users[0].ID)
	require.Len(t, users[0].Tasks, 1)
	assert.Equal(t, "t-1", users[0].Tasks[0].ID)
	require.Len(t, users[1].Tasks, 1)
	assert.Equal(t, models.StatusFailed, users[1].Tasks[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersByRole_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectQuery("SELECT .* FROM users").WillReturnRows(sqlmock.NewRows(userColumns))

	users, err := repo.ListUsersByRole(context.Background(), models.RoleEmployee)

	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersByRole_QueryError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)

	mock.ExpectQuery("SELECT .* FROM users").WillReturnError(errors.New("boom"))

	_, err := repo.ListUsersByRole(context.Background(), models.RoleEmployee)

	assert.ErrorIs(t, err, ErrExecutingQuery)
}
