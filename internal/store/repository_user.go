package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// userRepository is the SQL implementation of [UserRepository] shared by the
// PostgreSQL and SQLite backends. Users live in the "users" table and their
// tasks in the "tasks" table keyed by (user_id, id).
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts the user inside a transaction that first checks whether
// the table is empty; the first account ever created becomes admin. On
// PostgreSQL the users table is locked for the duration of the transaction
// so two concurrent first registrations cannot both become admin.
//
// Error handling:
//   - unique violation on email → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped operation error.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to begin transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if r.db.dialect == DialectPostgres {
		if _, err = tx.ExecContext(ctx, lockUsersStatement); err != nil {
			log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to lock users table")
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	hasUsers, err := r.hasUsers(ctx, tx)
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to check whether users exist")
		return models.User{}, err
	}
	if !hasUsers {
		user.Role = models.RoleAdmin
	}

	query, args, err := buildInsertUserQuery(r.db.builder, user)
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Str("email", user.Email).Msg("failed to insert user")
		return models.User{}, r.db.classify(err, ErrExecutingQuery)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to commit transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	user.Tasks = []models.Task{}
	return user, nil
}

// FindUserByEmail retrieves the user with the given (already normalized)
// email together with its tasks.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "userRepository.FindUserByEmail", sq.Eq{"email": email})
}

// FindUserByID retrieves the user with the given identifier together with
// its tasks.
func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, "userRepository.FindUserByID", sq.Eq{"id": id})
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder, where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to scan user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	users := []models.User{user}
	if err = loadTasks(ctx, r.db, users); err != nil {
		log.Err(err).Str("func", funcName).Str("user_id", user.ID).Msg("failed to load user tasks")
		return models.User{}, err
	}

	return users[0], nil
}

// UpdateUser sets the non-nil fields of update and returns the stored user.
func (r *userRepository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(r.db.builder, id, update, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "userRepository.UpdateUser").Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "userRepository.UpdateUser").Str("user_id", id).Msg("failed to update user")
		return models.User{}, r.db.classify(err, ErrExecutingQuery)
	}

	users := []models.User{user}
	if err = loadTasks(ctx, r.db, users); err != nil {
		log.Err(err).Str("func", "userRepository.UpdateUser").Str("user_id", id).Msg("failed to load user tasks")
		return models.User{}, err
	}

	return users[0], nil
}

// HasUsers reports whether the users table contains at least one row.
func (r *userRepository) HasUsers(ctx context.Context) (bool, error) {
	hasUsers, err := r.hasUsers(ctx, r.db)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userRepository.HasUsers").Msg("failed to check whether users exist")
		return false, err
	}
	return hasUsers, nil
}

// ListUsersByRole returns users of the given role ordered by creation time,
// each with its tasks.
func (r *userRepository) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUsersByRoleQuery(r.db.builder, role)
	if err != nil {
		log.Err(err).Str("func", "userRepository.ListUsersByRole").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "userRepository.ListUsersByRole").Str("role", string(role)).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "userRepository.ListUsersByRole").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "userRepository.ListUsersByRole").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	if err = loadTasks(ctx, r.db, users); err != nil {
		log.Err(err).Str("func", "userRepository.ListUsersByRole").Msg("failed to load tasks")
		return nil, err
	}

	return users, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *userRepository) hasUsers(ctx context.Context, q queryRower) (bool, error) {
	query, args, err := buildHasUsersQuery(r.db.builder)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var hasUsers bool
	if err = q.QueryRowContext(ctx, query, args...).Scan(&hasUsers); err != nil {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return hasUsers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user models.User
		role string
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.SecretKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.Role = models.Role(role)

	return user, err
}
