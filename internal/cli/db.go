package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jsweb-dev/jsweb/internal/commands"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/orm"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newDBCmd(debug *bool) *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:   "db",
		Short: "Manage the project database schema",
	}
	c.PersistentFlags().StringVarP(&dir, "dir", "d", "", "Project directory (default: working directory)")

	c.AddCommand(
		newMakeMigrationsCmd(&dir, debug),
		newMigrateCmd(&dir, debug),
		newRollbackCmd(&dir, debug),
		newDBStatusCmd(&dir, debug),
	)
	return c
}

func newMakeMigrationsCmd(dir *string, debug *bool) *cobra.Command {
	var message string

	c := &cobra.Command{
		Use:   "makemigrations",
		Short: "Create a pair of empty up/down SQL migration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := cliProvider(*debug)
			migrator, cleanup, err := openMigrator(*dir, logging.CLILogger(provider))
			if err != nil {
				return err
			}
			defer cleanup()

			reg := commands.RegisterCommands(nil, migrator, commands.CommandLogger(provider, "db"))
			defer reg.Close()

			return commands.Dispatch(cmd.Context(), commands.CreateMigrationCommand{Name: message})
		},
	}
	c.Flags().StringVarP(&message, "message", "m", "", "Short name describing the migration")
	_ = c.MarkFlagRequired("message")
	return c
}

func newMigrateCmd(dir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply every unapplied migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := cliProvider(*debug)
			migrator, cleanup, err := openMigrator(*dir, logging.CLILogger(provider))
			if err != nil {
				return err
			}
			defer cleanup()

			reg := commands.RegisterCommands(nil, migrator, commands.CommandLogger(provider, "db"))
			defer reg.Close()

			return commands.Dispatch(cmd.Context(), commands.ApplyMigrationsCommand{})
		},
	}
}

func newRollbackCmd(dir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recently applied migration group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := cliProvider(*debug)
			migrator, cleanup, err := openMigrator(*dir, logging.CLILogger(provider))
			if err != nil {
				return err
			}
			defer cleanup()

			reg := commands.RegisterCommands(nil, migrator, commands.CommandLogger(provider, "db"))
			defer reg.Close()

			return commands.Dispatch(cmd.Context(), commands.RollbackMigrationsCommand{})
		},
	}
}

func newDBStatusCmd(dir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := cliLogger(*debug)
			migrator, cleanup, err := openMigrator(*dir, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "applied (%d):\n", len(status.Applied))
			for _, name := range status.Applied {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintf(out, "pending (%d):\n", len(status.Unapplied))
			for _, name := range status.Unapplied {
				fmt.Fprintf(out, "  %s\n", name)
			}
			if status.LastGroup != "" {
				fmt.Fprintf(out, "last group: %s\n", status.LastGroup)
			}
			return nil
		},
	}
}

// openMigrator loads the project config, connects to the configured database,
// and returns a migrator rooted at the project migrations directory.
func openMigrator(dir string, logger interfaces.Logger) (*orm.Migrator, func(), error) {
	cfg, err := loadProjectConfig(dir)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Database.Enabled {
		return nil, nil, fmt.Errorf("cli: database is disabled in %s", runtimeconfig.ConfigFileName)
	}

	db, err := orm.Open(cfg.Database, orm.WithDBLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if dir != "" && !filepath.IsAbs(migrationsDir) {
		migrationsDir = filepath.Join(dir, migrationsDir)
	}

	migrator := orm.NewMigrator(db, migrationsDir, orm.WithMigratorLogger(logger))
	cleanup := func() { _ = db.Close() }
	return migrator, cleanup, nil
}
