package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "intakectl",
		Short: "Inspect borrower evidence exports and coverage from the command line",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newScoreCommand())
	rootCmd.AddCommand(newChatCommand())

	return rootCmd
}
