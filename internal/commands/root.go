package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:     "daybook",
		Short:   "Daily cash ledger and denomination reconciliation for a shop",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.repo, "repo", ".", "daybook repository directory")
	rootCmd.PersistentFlags().StringVar(&g.role, "role", "", "act as this role (user, accountant, manager, owner)")

	rootCmd.AddCommand(
		newInitCommand(),
		newOpenCommand(&g),
		newCloseCommand(&g),
		newReopenCommand(&g),
		newReconcileCommand(&g),
		newAddCommand(&g),
		newReverseCommand(&g),
		newListCommand(&g),
		newSummaryCommand(&g),
		newImportCommand(&g),
		newSeedCommand(&g),
		newServeCommand(&g),
	)

	return rootCmd
}
