package commands

import (
	"context"

	"github.com/jsweb-dev/jsweb/internal/scaffold"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// Registry holds the constructed handlers together with their dispatcher
// subscriptions so callers can dispatch messages and tear down cleanly.
type Registry struct {
	Project   *CreateProjectHandler
	Migration *CreateMigrationHandler
	Apply     *ApplyMigrationsHandler
	Rollback  *RollbackMigrationsHandler

	subs []unsubscriber
}

type unsubscriber interface {
	Unsubscribe()
}

// RegisterCommands builds every command handler and subscribes each to the
// process dispatcher with a single retry for transient failures. The migration
// runner may be nil when no database is configured; database commands then
// fail with ErrMigratorRequired.
func RegisterCommands(generator *scaffold.Generator, migrations MigrationRunner, logger interfaces.Logger) *Registry {
	reg := &Registry{
		Project:   NewCreateProjectHandler(generator, logger),
		Migration: NewCreateMigrationHandler(migrations, logger),
		Apply:     NewApplyMigrationsHandler(migrations, logger),
		Rollback:  NewRollbackMigrationsHandler(migrations, logger),
	}

	reg.subs = append(reg.subs,
		dispatcher.SubscribeCommand(reg.Project, runner.WithMaxRetries(1)),
		dispatcher.SubscribeCommand(reg.Migration, runner.WithMaxRetries(1)),
		dispatcher.SubscribeCommand(reg.Apply, runner.WithMaxRetries(1)),
		dispatcher.SubscribeCommand(reg.Rollback, runner.WithMaxRetries(1)),
	)
	return reg
}

// Close removes the registry's dispatcher subscriptions.
func (r *Registry) Close() {
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
}

// Dispatch routes a message through the process dispatcher to its subscribed handler.
func Dispatch[T command.Message](ctx context.Context, msg T) error {
	return dispatcher.Dispatch(ctx, msg)
}
