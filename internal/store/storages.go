package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// Storages bundles the repositories of the selected backend.
type Storages struct {
	UserRepository UserRepository
	TaskRepository TaskRepository
	SeedRepository SeedRepository
	HealthChecker  HealthChecker

	closer func(ctx context.Context) error
}

// NewStorages picks a backend from the DSN scheme:
//
//	postgres://, postgresql://       PostgreSQL
//	sqlite://, file:                 SQLite
//	mongodb://, mongodb+srv://       MongoDB
//	memory://                        process memory
//
// SQL backends are migrated first when cfg.DB.Migrate is set.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	dsn := cfg.DB.DSN

	switch {
	case hasAnyPrefix(dsn, "postgres://", "postgresql://"):
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		return newSQLStorages(db, cfg.DB.Migrate, log)

	case hasAnyPrefix(dsn, sqliteScheme, "file:"):
		db, err := NewConnectSQLite(ctx, dsn, log)
		if err != nil {
			return nil, err
		}
		return newSQLStorages(db, cfg.DB.Migrate, log)

	case hasAnyPrefix(dsn, "mongodb://", "mongodb+srv://"):
		s, err := NewConnectMongo(ctx, dsn, log)
		if err != nil {
			return nil, err
		}
		return &Storages{
			UserRepository: s,
			TaskRepository: s,
			SeedRepository: s,
			HealthChecker:  s,
			closer:         s.Close,
		}, nil

	case hasAnyPrefix(dsn, "memory://"):
		return NewMemoryStorages(log), nil
	}

	log.Error().Str("func", "NewStorages").Msg("unsupported storage DSN")
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, schemeOf(dsn))
}

// NewMemoryStorages returns storages backed by a fresh [MemoryStore].
func NewMemoryStorages(log *logger.Logger) *Storages {
	m := NewMemoryStore(log)
	return &Storages{
		UserRepository: m,
		TaskRepository: m,
		SeedRepository: m,
		HealthChecker:  m,
	}
}

func newSQLStorages(db *DB, migrate bool, log *logger.Logger) (*Storages, error) {
	if migrate {
		if err := db.Migrate(); err != nil {
			log.Err(err).Str("func", "newSQLStorages").Msg("failed to apply migrations")
			db.Close()
			return nil, err
		}
		log.Info().Str("func", "newSQLStorages").Str("dialect", string(db.Dialect())).Msg("migrations applied")
	}

	return &Storages{
		UserRepository: NewUserRepository(db, log),
		TaskRepository: NewTaskRepository(db, log),
		SeedRepository: NewSeedRepository(db, log),
		HealthChecker:  db,
		closer:         func(context.Context) error { return db.Close() },
	}, nil
}

// Close releases the backend connection.
func (s *Storages) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// schemeOf returns the part of dsn before "://" so that credentials are
// never logged or returned.
func schemeOf(dsn string) string {
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return ""
	}
	return scheme
}
