package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/bus"
	"github.com/meridianhq/meridian-console/internal/importer"
	"github.com/meridianhq/meridian-console/internal/store"
)

var (
	importDir   string
	importWatch bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import exported report files into the local cache",
	Long: `Import scans a drop directory for report JSON files (the shape
produced by the backend and by other consoles' exports), saves them
into the local cache, and archives each imported file in place.

With --watch the importer keeps running and picks up files as they
appear, which makes a shared directory a simple way to move reports
between analysts.

Examples:
  # One-shot import from the default drop directory
  meridian-console import

  # Watch a shared folder
  meridian-console import --dir /srv/meridian/drop --watch`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDir, "dir", "", "Drop directory (default from config import.dir)")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "Keep watching the directory for new files")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	dir := importDir
	if dir == "" {
		dir = config.Import.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create drop directory %s: %w", dir, err)
	}

	logger := log.New(os.Stderr, "[import] ", log.LstdFlags)

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	eventBus := bus.NewBus(config.Redis.URL, log.New(io.Discard, "", 0))
	defer eventBus.Close()

	im := importer.New(st, eventBus, importer.Options{
		Dir:    dir,
		Watch:  importWatch,
		Logger: logger,
	})
	if err := im.Run(ctx); err != nil && ctx.Err() == nil && err != context.Canceled {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Printf("Imported %d report(s) from %s\n", im.Imported(), dir)
	return nil
}
