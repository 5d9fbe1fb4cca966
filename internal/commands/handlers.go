package commands

import (
	"context"
	"errors"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/scaffold"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	createProjectOperation      = "project.create"
	createMigrationOperation    = "db.create_migration"
	applyMigrationsOperation    = "db.migrate"
	rollbackMigrationsOperation = "db.rollback"
)

// ErrMigratorRequired is returned when a database command runs without a configured database.
var ErrMigratorRequired = errors.New("commands: migration runner is required")

var (
	_ command.Commander[CreateProjectCommand]      = (*CreateProjectHandler)(nil)
	_ command.Commander[CreateMigrationCommand]    = (*CreateMigrationHandler)(nil)
	_ command.Commander[ApplyMigrationsCommand]    = (*ApplyMigrationsHandler)(nil)
	_ command.Commander[RollbackMigrationsCommand] = (*RollbackMigrationsHandler)(nil)
)

// MigrationRunner abstracts the SQL migration workflow used by database commands.
type MigrationRunner interface {
	Create(ctx context.Context, name string) ([]string, error)
	Migrate(ctx context.Context) ([]string, error)
	Rollback(ctx context.Context) ([]string, error)
}

// CreateProjectHandler scaffolds new projects via the shared command handler foundation.
type CreateProjectHandler struct {
	inner *Handler[CreateProjectCommand]
}

// NewCreateProjectHandler creates a handler bound to the supplied project generator.
func NewCreateProjectHandler(generator *scaffold.Generator, logger interfaces.Logger, opts ...HandlerOption[CreateProjectCommand]) *CreateProjectHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}
	if generator == nil {
		generator = scaffold.NewGenerator()
	}

	exec := func(ctx context.Context, msg CreateProjectCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		project, err := scaffold.NewProject(msg.Name, msg.Dir)
		if err != nil {
			return err
		}
		if err := generator.Create(project, msg.Force); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"project": project.Name,
			"dir":     project.Dir,
		}).Info("project.create.completed")
		return nil
	}

	handlerOpts := []HandlerOption[CreateProjectCommand]{
		WithLogger[CreateProjectCommand](baseLogger),
		WithOperation[CreateProjectCommand](createProjectOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateProjectHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateProjectCommand].
func (h *CreateProjectHandler) Execute(ctx context.Context, msg CreateProjectCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CreateMigrationHandler writes new SQL migration files via the shared command handler foundation.
type CreateMigrationHandler struct {
	inner *Handler[CreateMigrationCommand]
}

// NewCreateMigrationHandler creates a handler bound to the supplied migration runner.
func NewCreateMigrationHandler(runner MigrationRunner, logger interfaces.Logger, opts ...HandlerOption[CreateMigrationCommand]) *CreateMigrationHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CreateMigrationCommand) error {
		if runner == nil {
			return ErrMigratorRequired
		}
		files, err := runner.Create(ctx, msg.Name)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"migration": msg.Name,
			"files":     files,
		}).Info("db.create_migration.completed")
		return nil
	}

	handlerOpts := []HandlerOption[CreateMigrationCommand]{
		WithLogger[CreateMigrationCommand](baseLogger),
		WithOperation[CreateMigrationCommand](createMigrationOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateMigrationHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateMigrationCommand].
func (h *CreateMigrationHandler) Execute(ctx context.Context, msg CreateMigrationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ApplyMigrationsHandler runs pending migrations via the shared command handler foundation.
type ApplyMigrationsHandler struct {
	inner *Handler[ApplyMigrationsCommand]
}

// NewApplyMigrationsHandler creates a handler bound to the supplied migration runner.
func NewApplyMigrationsHandler(runner MigrationRunner, logger interfaces.Logger, opts ...HandlerOption[ApplyMigrationsCommand]) *ApplyMigrationsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ApplyMigrationsCommand) error {
		if runner == nil {
			return ErrMigratorRequired
		}
		applied, err := runner.Migrate(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"applied_count": len(applied),
			"applied":       applied,
		}).Info("db.migrate.completed")
		return nil
	}

	handlerOpts := []HandlerOption[ApplyMigrationsCommand]{
		WithLogger[ApplyMigrationsCommand](baseLogger),
		WithOperation[ApplyMigrationsCommand](applyMigrationsOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ApplyMigrationsHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ApplyMigrationsCommand].
func (h *ApplyMigrationsHandler) Execute(ctx context.Context, msg ApplyMigrationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RollbackMigrationsHandler reverts the latest migration group via the shared command handler foundation.
type RollbackMigrationsHandler struct {
	inner *Handler[RollbackMigrationsCommand]
}

// NewRollbackMigrationsHandler creates a handler bound to the supplied migration runner.
func NewRollbackMigrationsHandler(runner MigrationRunner, logger interfaces.Logger, opts ...HandlerOption[RollbackMigrationsCommand]) *RollbackMigrationsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RollbackMigrationsCommand) error {
		if runner == nil {
			return ErrMigratorRequired
		}
		reverted, err := runner.Rollback(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"reverted_count": len(reverted),
			"reverted":       reverted,
		}).Info("db.rollback.completed")
		return nil
	}

	handlerOpts := []HandlerOption[RollbackMigrationsCommand]{
		WithLogger[RollbackMigrationsCommand](baseLogger),
		WithOperation[RollbackMigrationsCommand](rollbackMigrationsOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RollbackMigrationsHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RollbackMigrationsCommand].
func (h *RollbackMigrationsHandler) Execute(ctx context.Context, msg RollbackMigrationsCommand) error {
	return h.inner.Execute(ctx, msg)
}
