package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/store"
)

var (
	confirmClear bool
	clearRemote  bool
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored investigations",
	Long: `Clear deletes every investigation from the local cache, and with
--remote also from the backend.

WARNING: This operation is irreversible.

Examples:
  # Clear the local cache (requires confirmation)
  meridian-console clear

  # Clear with automatic confirmation
  meridian-console clear --yes

  # Also clear the backend's history
  meridian-console clear --remote --yes`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&confirmClear, "yes", "y", false, "Automatically confirm the clear operation")
	clearCmd.Flags().BoolVar(&clearRemote, "remote", false, "Also clear the backend's stored investigations")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	scope := "the local investigation cache"
	if clearRemote {
		scope += " and the backend's investigation history"
	}
	fmt.Printf("This will permanently delete: %s\n", scope)

	if !confirmClear {
		fmt.Print("Are you sure you want to continue? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if r := strings.ToLower(response); r != "y" && r != "yes" {
			fmt.Println("Clear operation cancelled.")
			return nil
		}
	}

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	n, err := st.ClearReports(ctx)
	if err != nil {
		return fmt.Errorf("clear local cache: %w", err)
	}
	fmt.Printf("✓ Removed %d investigation(s) from the local cache\n", n)

	if clearRemote {
		client := api.NewClient(config.API.URL, nil)
		if err := client.ClearInvestigations(ctx); err != nil {
			return fmt.Errorf("clear backend history: %w", err)
		}
		fmt.Println("✓ Backend investigation history cleared")
	}
	return nil
}
