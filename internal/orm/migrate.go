package orm

import (
	"context"
	"fmt"
	"os"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	"github.com/uptrace/bun/migrate"
)

// MigrationStatus summarises the migration table for the db status command.
type MigrationStatus struct {
	Applied   []string
	Unapplied []string
	LastGroup string
}

// Migrator runs SQL migrations discovered under the project migrations
// directory, recording progress in bun's bookkeeping tables.
type Migrator struct {
	db     *DB
	dir    string
	logger interfaces.Logger
}

// MigratorOption configures the migrator.
type MigratorOption func(*Migrator)

// WithMigratorLogger overrides the default noop logger.
func WithMigratorLogger(logger interfaces.Logger) MigratorOption {
	return func(m *Migrator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMigrator constructs a migrator over dir.
func NewMigrator(db *DB, dir string, opts ...MigratorOption) *Migrator {
	m := &Migrator{
		db:     db,
		dir:    dir,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create writes a new pair of up/down SQL migration files named after name.
func (m *Migrator) Create(ctx context.Context, name string) ([]string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("orm: create migrations directory: %w", err)
	}

	migrator, err := m.bunMigrator(ctx)
	if err != nil {
		return nil, err
	}

	files, err := migrator.CreateSQLMigrations(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("orm: create migration %q: %w", name, err)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
		m.logger.Info("migration file created", "path", file.Path)
	}
	return paths, nil
}

// Migrate applies every unapplied migration. It returns the names of the
// migrations that ran, empty when the database is already up to date.
func (m *Migrator) Migrate(ctx context.Context) ([]string, error) {
	migrator, err := m.bunMigrator(ctx)
	if err != nil {
		return nil, err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("orm: apply migrations: %w", err)
	}
	if group.IsZero() {
		m.logger.Info("database is up to date")
		return nil, nil
	}

	applied := make([]string, 0, len(group.Migrations))
	for _, migration := range group.Migrations {
		applied = append(applied, migration.Name)
	}
	m.logger.Info("migrations applied", "group", group.String(), "count", len(applied))
	return applied, nil
}

// Rollback reverts the last applied migration group.
func (m *Migrator) Rollback(ctx context.Context) ([]string, error) {
	migrator, err := m.bunMigrator(ctx)
	if err != nil {
		return nil, err
	}

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("orm: rollback migrations: %w", err)
	}
	if group.IsZero() {
		return nil, nil
	}

	reverted := make([]string, 0, len(group.Migrations))
	for _, migration := range group.Migrations {
		reverted = append(reverted, migration.Name)
	}
	return reverted, nil
}

// Status reports applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	migrator, err := m.bunMigrator(ctx)
	if err != nil {
		return MigrationStatus{}, err
	}

	migrations, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("orm: read migration status: %w", err)
	}

	status := MigrationStatus{
		LastGroup: migrations.LastGroup().String(),
	}
	for _, migration := range migrations.Applied() {
		status.Applied = append(status.Applied, migration.Name)
	}
	for _, migration := range migrations.Unapplied() {
		status.Unapplied = append(status.Unapplied, migration.Name)
	}
	return status, nil
}

// bunMigrator discovers migration files and initialises bookkeeping tables
// so every entry point works against a fresh database.
func (m *Migrator) bunMigrator(ctx context.Context) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations(migrate.WithMigrationsDirectory(m.dir))

	if info, err := os.Stat(m.dir); err == nil && info.IsDir() {
		if err := migrations.Discover(os.DirFS(m.dir)); err != nil {
			return nil, fmt.Errorf("orm: discover migrations: %w", err)
		}
	}

	migrator := migrate.NewMigrator(m.db.Bun(), migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("orm: init migration tables: %w", err)
	}
	return migrator, nil
}
