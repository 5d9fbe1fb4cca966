package commands

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	createProjectMessageType      = "jsweb.project.create"
	createMigrationMessageType    = "jsweb.db.create_migration"
	applyMigrationsMessageType    = "jsweb.db.migrate"
	rollbackMigrationsMessageType = "jsweb.db.rollback"
)

// CreateProjectCommand scaffolds a new project directory with starter config,
// templates, static assets, and an application entry point.
type CreateProjectCommand struct {
	// Name is the human-provided project name; it is normalised into a directory slug.
	Name string `json:"name"`
	// Dir selects the parent directory the project folder is created under.
	Dir string `json:"dir,omitempty"`
	// Force overwrites starter files when the target directory already has content.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (CreateProjectCommand) Type() string { return createProjectMessageType }

// Validate ensures a project name is present before handlers execute.
func (cmd CreateProjectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Name, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("jsweb.project.create.name_required", "project name is required")
			}
			return nil
		})),
	)
}

// CreateMigrationCommand writes a new pair of timestamped SQL migration files
// into the configured migrations directory.
type CreateMigrationCommand struct {
	// Name labels the migration files, e.g. "add_users_table".
	Name string `json:"name"`
}

// Type implements command.Message.
func (CreateMigrationCommand) Type() string { return createMigrationMessageType }

// Validate ensures a migration name is present before handlers execute.
func (cmd CreateMigrationCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Name, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("jsweb.db.create_migration.name_required", "migration name is required")
			}
			return nil
		})),
	)
}

// ApplyMigrationsCommand runs every unapplied migration against the configured database.
type ApplyMigrationsCommand struct{}

// Type implements command.Message.
func (ApplyMigrationsCommand) Type() string { return applyMigrationsMessageType }

// Validate implements command.Message.
func (ApplyMigrationsCommand) Validate() error { return nil }

// RollbackMigrationsCommand reverts the most recently applied migration group.
type RollbackMigrationsCommand struct{}

// Type implements command.Message.
func (RollbackMigrationsCommand) Type() string { return rollbackMigrationsMessageType }

// Validate implements command.Message.
func (RollbackMigrationsCommand) Validate() error { return nil }
