package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

var (
	listLimit  int
	listRemote bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored investigations",
	Long: `List stored investigations in a simple text format. Works in any
terminal environment and provides an alternative to the TUI browser
when terminal capabilities are limited.

Examples:
  # List locally cached investigations
  meridian-console list

  # List investigations known to the backend
  meridian-console list --remote

  # Show only the five most recent
  meridian-console list --limit 5`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of investigations to show")
	listCmd.Flags().BoolVar(&listRemote, "remote", false, "List from the backend instead of the local cache")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	var recs []session.HistoryRecord
	if listRemote {
		client := api.NewClient(config.API.URL, nil)
		remote, err := client.ListInvestigations(ctx, listLimit)
		if err != nil {
			return fmt.Errorf("list from backend: %w", err)
		}
		recs = remote
	} else {
		st, err := store.NewStore(config.Database.Path)
		if err != nil {
			return fmt.Errorf("initialize store: %w", err)
		}
		defer st.Close()

		local, err := st.ListReports(ctx, listLimit)
		if err != nil {
			return fmt.Errorf("list investigations: %w", err)
		}
		recs = local
	}

	if len(recs) == 0 {
		fmt.Println("No investigations found.")
		return nil
	}

	fmt.Printf("Found %d investigations:\n\n", len(recs))
	for i, rec := range recs {
		fmt.Printf("%d. [%s] %s (%.1f/10)\n", i+1, rec.RiskLevel, rec.TargetName, rec.OverallScore)
		fmt.Printf("   ID: %s\n", rec.InvestigationID)
		if !rec.CompletedAt.IsZero() {
			fmt.Printf("   Completed: %s\n", rec.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if len(rec.RedFlags) > 0 {
			fmt.Printf("   Red flags: %d\n", len(rec.RedFlags))
		}
		fmt.Println()
	}
	return nil
}
