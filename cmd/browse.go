package cmd

import (
	"github.com/spf13/cobra"
)

// browseCmd opens the console directly on the stored-investigation
// browser, without starting a new investigation.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, compare, and export stored investigations",
	Long: `Browse opens the terminal console on the history screen.

From there: Enter replays a stored investigation, m starts batch
selection for deletion, c compares two investigations side by side,
and x exports the selected report to a text file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd.Context(), "")
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
