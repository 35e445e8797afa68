package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/store"
)

var deleteRemote bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <investigation-id>",
	Short: "Delete one stored investigation",
	Long: `Delete removes one investigation from the local cache, and with
--remote also from the backend.

Examples:
  meridian-console delete 3f2a9c10-...
  meridian-console delete 3f2a9c10-... --remote`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteRemote, "remote", false, "Also delete from the backend")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	id := args[0]

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	if err := st.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("delete from local cache: %w", err)
	}
	fmt.Printf("✓ Removed %s from the local cache\n", id)

	if deleteRemote {
		client := api.NewClient(config.API.URL, nil)
		if err := client.DeleteInvestigation(ctx, id); err != nil {
			return fmt.Errorf("delete from backend: %w", err)
		}
		fmt.Println("✓ Removed from the backend")
	}
	return nil
}
