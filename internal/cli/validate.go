package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ashlar/internal/optimizer"
)

// NewValidateCommand creates the validate command, which checks a step
// sequence string without running anything.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sequence>",
		Short: "Check a step sequence for syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := optimizer.ValidateSequence(args[0]); err != nil {
				return err
			}
			color.Green("Sequence is valid")
			return nil
		},
	}
}
