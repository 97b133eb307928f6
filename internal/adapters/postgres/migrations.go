package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationState is one row of the migrate status report.
type MigrationState struct {
	Version int64
	Source  string
	State   string
}

type migrator struct {
	provider *goose.Provider
	close    func() error
}

func (db *DB) migrator() (*migrator, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return &migrator{provider: provider, close: sqlDB.Close}, nil
}

// MigrateUp applies every pending migration.
func (db *DB) MigrateUp(ctx context.Context, log *zap.Logger) error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	defer m.close()

	results, err := m.provider.Up(ctx)
	for _, r := range results {
		logResult(log, r)
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(results) == 0 {
		log.Info("database schema is up to date")
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(ctx context.Context, log *zap.Logger) error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	defer m.close()

	result, err := m.provider.Down(ctx)
	if result != nil {
		logResult(log, result)
	}
	if err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

func (db *DB) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	m, err := db.migrator()
	if err != nil {
		return nil, err
	}
	defer m.close()

	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("read migration status: %w", err)
	}

	out := make([]MigrationState, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationState{
			Version: s.Source.Version,
			Source:  s.Source.Path,
			State:   string(s.State),
		})
	}
	return out, nil
}

func logResult(log *zap.Logger, r *goose.MigrationResult) {
	fields := []zap.Field{
		zap.Int64("version", r.Source.Version),
		zap.String("source", r.Source.Path),
		zap.String("direction", r.Direction),
		zap.Duration("took", r.Duration),
	}
	if r.Error != nil {
		log.Error("migration failed", append(fields, zap.Error(r.Error))...)
		return
	}
	log.Info("migration applied", fields...)
}
