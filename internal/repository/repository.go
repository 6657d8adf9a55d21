// Package repository selects the storage backend once at startup and exposes
// it through the domain repository interfaces.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"placement/internal/config"
	"placement/internal/database"
	"placement/internal/domain/application"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
	"placement/internal/repository/memory"
	"placement/internal/repository/mongodb"
	"placement/internal/repository/postgres"
)

type Store struct {
	Students     profile.StudentRepository
	Recruiters   profile.RecruiterRepository
	Jobs         job.Repository
	Applications application.Repository
	Backend      string

	close func(context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the configured backend, prepares its schema or indexes and
// returns the bundled repositories.
func Open(ctx context.Context, cfg config.Storage, logger *slog.Logger) (*Store, error) {
	switch cfg.Backend() {
	case config.BackendDocument:
		client, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase, ConnectTimeout: cfg.ConnectTimeout})
		if err != nil {
			return nil, err
		}
		store := mongodb.NewStore(client.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		logger.Info("storage backend selected", slog.String("backend", config.BackendDocument), slog.String("database", cfg.MongoDatabase))
		return &Store{
			Students:     store.Students,
			Recruiters:   store.Recruiters,
			Jobs:         store.Jobs,
			Applications: store.Applications,
			Backend:      config.BackendDocument,
			close:        client.Disconnect,
		}, nil
	case config.BackendRelational:
		db, err := database.NewPostgres(ctx, database.PostgresConfig{
			Driver:          cfg.DBDriver,
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
			ReadyTimeout:    cfg.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		store := postgres.NewStore(db)
		logger.Info("storage backend selected", slog.String("backend", config.BackendRelational), slog.String("driver", cfg.DBDriver))
		return &Store{
			Students:     store.Students,
			Recruiters:   store.Recruiters,
			Jobs:         store.Jobs,
			Applications: store.Applications,
			Backend:      config.BackendRelational,
			close:        func(context.Context) error { return db.Close() },
		}, nil
	default:
		logger.Warn("no database configured, using in-memory store")
		return NewMemory(), nil
	}
}

func NewMemory() *Store {
	db := memory.New()
	return &Store{
		Students:     db.Students(),
		Recruiters:   db.Recruiters(),
		Jobs:         db.Jobs(),
		Applications: db.Applications(),
		Backend:      config.BackendMemory,
	}
}
