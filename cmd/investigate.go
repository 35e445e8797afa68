package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/bus"
	"github.com/meridianhq/meridian-console/internal/event"
	"github.com/meridianhq/meridian-console/internal/report"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
	"github.com/meridianhq/meridian-console/internal/stream"
	"github.com/meridianhq/meridian-console/internal/ui"
)

var (
	noUI    bool
	forceUI bool
)

// investigateCmd represents the investigate command
var investigateCmd = &cobra.Command{
	Use:   "investigate <target>",
	Short: "Run a due-diligence investigation against a target company",
	Long: `Investigate starts a multi-agent due-diligence investigation on the
Meridian backend and follows its progress live.

Six specialist agents examine the target in parallel; their risk
sub-scores and findings stream in as they work, followed by a
synthesized overall verdict. Completed investigations are cached in
the local database and announced on Redis Streams.

Examples:
  # Investigate with the live TUI
  meridian-console investigate "Acme Holdings Ltd"

  # Plain-text progress for logs and CI
  meridian-console investigate "Acme Holdings Ltd" --no-ui`,
	Args: cobra.ExactArgs(1),
	RunE: runInvestigate,
}

func init() {
	rootCmd.AddCommand(investigateCmd)

	investigateCmd.Flags().BoolVar(&noUI, "no-ui", false, "Plain-text progress instead of the TUI")
	investigateCmd.Flags().BoolVar(&forceUI, "force-ui", false, "Force the TUI even in unsupported terminals")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	target := strings.TrimSpace(args[0])
	if target == "" {
		return fmt.Errorf("target must not be empty")
	}

	if noUI || (!forceUI && !canInitializeTUI()) {
		return runInvestigatePlain(cmd.Context(), target)
	}
	return runConsole(cmd.Context(), target)
}

// runConsole starts the full-screen console, optionally launching an
// investigation of target first.
func runConsole(ctx context.Context, target string) error {
	config := GetConfig()

	// Logs go to a file while the TUI owns the terminal.
	logger, closeLog := setupFileLogger("console")
	defer closeLog()

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	eventBus := bus.NewBus(config.Redis.URL, logger)
	defer eventBus.Close()

	client := api.NewClient(config.API.URL, logger)

	app := ui.NewApp(ctx, ui.Options{
		Client: client,
		Store:  st,
		Bus:    eventBus,
		Logger: logger,
		Theme:  config.UI.Theme,
	})
	if err := app.Run(target); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// runInvestigatePlain follows the stream without a TUI, printing one
// line per state change. The completed report still lands in the cache
// and on the bus.
func runInvestigatePlain(ctx context.Context, target string) error {
	config := GetConfig()
	logger := log.New(os.Stderr, "[investigate] ", log.LstdFlags)

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	eventBus := bus.NewBus(config.Redis.URL, log.New(io.Discard, "", 0))
	defer eventBus.Close()

	client := api.NewClient(config.API.URL, logger)

	fmt.Printf("Investigating %s...\n\n", target)
	body, err := client.StartStream(ctx, target, uuid.NewString())
	if err != nil {
		return fmt.Errorf("start investigation: %w", err)
	}
	defer body.Close()

	inv := session.NewInvestigation(target)
	streamLogger := log.New(io.Discard, "", 0)
	err = stream.Pump(ctx, body, streamLogger, func(ev event.Event) {
		printEvent(ev)
		inv.Apply(ev, streamLogger)
	})
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	inv.Apply(event.StreamEnd{}, streamLogger)

	if inv.Phase != session.PhaseComplete || inv.Final == nil {
		reason := inv.FailureReason
		if reason == "" {
			reason = "no final report received"
		}
		return fmt.Errorf("investigation failed: %s", reason)
	}

	rec := ui.RecordFromInvestigation(*inv)
	fmt.Println()
	fmt.Print(report.Render(rec))

	if _, err := st.SaveReport(ctx, rec); err != nil {
		logger.Printf("save report: %v", err)
	}
	if err := eventBus.PublishReport(ctx, bus.ReportMessage{
		InvestigationID: rec.InvestigationID,
		TargetName:      rec.TargetName,
		OverallScore:    rec.OverallScore,
		RiskLevel:       rec.RiskLevel,
		Recommendation:  string(inv.Final.Recommendation),
		CompletedAt:     rec.CompletedAt.Unix(),
	}); err != nil {
		logger.Printf("publish report: %v", err)
	}
	return nil
}

func printEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.InvestigationStarted:
		fmt.Printf("● investigation %s started\n", e.InvestigationID)
	case event.AgentStarted:
		fmt.Printf("  ▸ %s working...\n", e.Agent)
	case event.AgentComplete:
		if e.Agent == session.SynthesisAgent {
			fmt.Printf("  ✓ %s done\n", e.Agent)
			return
		}
		fmt.Printf("  ✓ %s scored %.1f (%d red flags)\n", e.Agent, e.RiskScore, len(e.RedFlags))
	case event.InvestigationComplete:
		fmt.Printf("● complete: overall %.1f %s, %s\n",
			e.OverallRiskScore, e.RiskLevel, e.ProceedRecommendation)
	}
}

// canInitializeTUI tests whether tcell can actually drive this terminal.
// The probe subsumes TERM sniffing: tcell knows best.
func canInitializeTUI() bool {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}
	if err := screen.Init(); err != nil {
		return false
	}
	screen.Fini()
	return true
}

// setupFileLogger creates a file-backed logger under logs/ so the TUI
// screen stays clean. Falls back to discarding when the file cannot be
// created.
func setupFileLogger(name string) (*log.Logger, func()) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	path := filepath.Join(logDir, fmt.Sprintf("meridian-%s.log", name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	logger := log.New(f, fmt.Sprintf("[%s] ", name), log.LstdFlags)
	logger.Printf("logger initialized at %s", time.Now().Format(time.RFC3339))
	return logger, func() { f.Close() }
}
