package cli

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	Verbose bool
	Config  string
}

// NewRootCommand creates the ashlar-opt root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ashlar-opt",
		Short: "Ashlar IR optimizer",
		Long: `Optimize Ashlar intermediate representation.

The optimizer runs a sequence of rewriting steps over a parsed IR tree.
Each step is identified by a one-character abbreviation; see "ashlar-opt
steps" for the catalogue and "ashlar-opt optimize --sequence" to run a
custom pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbosity := 0
			if opts.Verbose {
				verbosity = 1
			}
			commonlog.Configure(verbosity, nil)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a YAML settings file")

	cmd.AddCommand(NewOptimizeCommand(opts))
	cmd.AddCommand(NewStepsCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
