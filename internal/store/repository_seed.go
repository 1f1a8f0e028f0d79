package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// seedRepository is the SQL implementation of [SeedRepository].
type seedRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSeedRepository constructs a [SeedRepository] backed by db.
func NewSeedRepository(db *DB, logger *logger.Logger) SeedRepository {
	return &seedRepository{
		db:     db,
		logger: logger,
	}
}

// ResetUsers wipes both tables and inserts users with their tasks in one
// transaction.
func (r *seedRepository) ResetUsers(ctx context.Context, users []models.User) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "seedRepository.ResetUsers").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range []string{tasksTable, usersTable} {
		query, args, buildErr := buildDeleteAllQuery(r.db.builder, table)
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "seedRepository.ResetUsers").Str("table", table).Msg("failed to wipe table")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	for _, user := range users {
		query, args, buildErr := buildInsertUserQuery(r.db.builder, user)
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "seedRepository.ResetUsers").Str("email", user.Email).Msg("failed to insert user")
			return r.db.classify(err, ErrExecutingQuery)
		}

		for _, task := range user.Tasks {
			query, args, buildErr = buildInsertTaskQuery(r.db.builder, user.ID, task)
			if buildErr != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).Str("func", "seedRepository.ResetUsers").Str("task_id", task.ID).Msg("failed to insert task")
				return r.db.classify(err, ErrExecutingQuery)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "seedRepository.ResetUsers").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Info().Str("func", "seedRepository.ResetUsers").Int("users", len(users)).Msg("store seeded")
	return nil
}
