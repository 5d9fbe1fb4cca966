package cli

import (
	"fmt"
	"os"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/logging/gologger"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	"github.com/spf13/cobra"
)

// Execute runs the jsweb command tree, exiting non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the jsweb command tree. Exposed so tests can execute
// subcommands without spawning a process.
func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "jsweb",
		Short:         "jsweb builds and serves database-backed web projects",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(
		newNewCmd(&debug),
		newRunCmd(&debug),
		newDBCmd(&debug),
		newVersionCmd(),
	)
	return cmd
}

// cliProvider builds a console logger provider for command execution. Failures
// return nil, which the logging helpers treat as a silent provider so CLI
// output stays usable.
func cliProvider(debug bool) interfaces.LoggerProvider {
	level := "info"
	if debug {
		level = "debug"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  level,
		Format: "console",
	})
	if err != nil {
		return nil
	}
	return provider
}

func cliLogger(debug bool) interfaces.Logger {
	return logging.CLILogger(cliProvider(debug))
}

// loadProjectConfig reads jsweb.yaml from dir, defaulting to the working directory.
func loadProjectConfig(dir string) (runtimeconfig.Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return runtimeconfig.Config{}, fmt.Errorf("cli: resolve working directory: %w", err)
		}
		dir = wd
	}
	return runtimeconfig.LoadDir(dir)
}
