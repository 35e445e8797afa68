package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/report"
	"github.com/meridianhq/meridian-console/internal/store"
)

var exportOut string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <investigation-id>",
	Short: "Export a stored investigation as a plain-text report",
	Long: `Export renders one stored investigation into the fixed plain-text
report format and writes it to a file.

Examples:
  # Export to an auto-named file in the working directory
  meridian-console export 3f2a9c10-...

  # Export to a specific path
  meridian-console export 3f2a9c10-... --out acme.txt

  # Print to stdout
  meridian-console export 3f2a9c10-... --out -`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default derives from target and date)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	rec, err := st.GetReport(ctx, args[0])
	if errors.Is(err, sql.ErrNoRows) {
		// Not cached locally; try the backend before giving up.
		client := api.NewClient(config.API.URL, nil)
		rec, err = client.GetInvestigation(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no stored investigation with id %s (backend: %v)", args[0], err)
		}
	} else if err != nil {
		return fmt.Errorf("load investigation: %w", err)
	}

	out := exportOut
	if out == "-" {
		fmt.Print(report.Render(rec))
		return nil
	}
	if out == "" {
		out = report.Filename(rec, time.Now())
	}
	if err := report.WriteFile(out, rec); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Exported %s to %s\n", rec.TargetName, out)
	return nil
}
