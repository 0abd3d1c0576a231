package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ashlar/internal/optimizer"
)

// NewStepsCommand creates the steps command, which prints the catalogue of
// optimization steps with their abbreviations.
func NewStepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List all optimization steps",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			abbreviations := optimizer.StepNameToAbbreviation()
			names := make([]string, 0, len(abbreviations))
			for name := range abbreviations {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%c  %s\n", abbreviations[name], name)
			}
		},
	}
}
