package cli

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/internal/server"
	"github.com/spf13/cobra"
)

func newRunCmd(debug *bool) *cobra.Command {
	var dir string
	var host string
	var port int
	var reload bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Run the project server, optionally restarting on file changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := cliLogger(*debug)

			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("cli: resolve working directory: %w", err)
				}
				dir = wd
			}

			// Fail fast on config errors before spawning the project process.
			if _, err := runtimeconfig.LoadDir(dir); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if reload && !server.IsReloadChild() {
				reloader := server.NewReloader([]string{dir}, server.WithReloaderLogger(logger))
				return reloader.Run(ctx)
			}

			child := exec.CommandContext(ctx, "go", "run", ".")
			child.Dir = dir
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			child.Env = append(os.Environ(), projectEnv(host, port, *debug)...)
			child.Cancel = func() error {
				return child.Process.Signal(os.Interrupt)
			}
			child.WaitDelay = 5 * time.Second

			logger.Info("run.start", "dir", dir)
			return child.Run()
		},
	}

	c.Flags().StringVarP(&dir, "dir", "d", "", "Project directory (default: working directory)")
	c.Flags().StringVar(&host, "host", "", "Override the configured listen host")
	c.Flags().IntVarP(&port, "port", "p", 0, "Override the configured listen port")
	c.Flags().BoolVarP(&reload, "reload", "r", false, "Restart the server when project files change")
	return c
}

// projectEnv translates run flags into the environment overrides honoured by
// the project's config loader.
func projectEnv(host string, port int, debug bool) []string {
	env := []string{}
	if host != "" {
		env = append(env, runtimeconfig.EnvServerHost+"="+host)
	}
	if port > 0 {
		env = append(env, runtimeconfig.EnvServerPort+"="+strconv.Itoa(port))
	}
	if debug {
		env = append(env, runtimeconfig.EnvDebug+"=true")
	}
	return env
}
