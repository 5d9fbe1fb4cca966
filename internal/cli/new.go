package cli

import (
	"github.com/jsweb-dev/jsweb/internal/commands"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/scaffold"
	"github.com/spf13/cobra"
)

func newNewCmd(debug *bool) *cobra.Command {
	var dir string
	var force bool

	c := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a new project directory with starter config, templates, and models",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := cliProvider(*debug)
			generator := scaffold.NewGenerator(
				scaffold.WithGeneratorLogger(logging.ScaffoldLogger(provider)),
			)
			reg := commands.RegisterCommands(generator, nil, commands.CommandLogger(provider, "project"))
			defer reg.Close()

			return commands.Dispatch(cmd.Context(), commands.CreateProjectCommand{
				Name:  args[0],
				Dir:   dir,
				Force: force,
			})
		},
	}

	c.Flags().StringVarP(&dir, "dir", "d", "", "Parent directory for the project (default: working directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite starter files in a non-empty directory")
	return c
}
