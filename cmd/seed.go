package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-console/internal/event"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample investigations into the local cache",
	Long: `Seed sample completed investigations into the SQLite cache.
This is useful for local testing of the browser, compare, and export
flows without a running backend.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	logger := log.New(cmd.OutOrStdout(), "[seed] ", log.LstdFlags)
	logger.Println("Seeding sample investigations...")

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	existing, err := st.ListReports(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to list investigations: %w", err)
	}
	if len(existing) > 0 {
		logger.Println("Cache already has investigations, nothing to do")
		return nil
	}

	now := time.Now().UTC()
	for _, rec := range sampleInvestigations(now) {
		if _, err := st.SaveReport(ctx, rec); err != nil {
			logger.Printf("Failed to seed %s: %v", rec.TargetName, err)
		}
	}
	logger.Println("Seeding complete")
	return nil
}

func sampleInvestigations(now time.Time) []session.HistoryRecord {
	return []session.HistoryRecord{
		{
			TargetName:   "Northwind Logistics GmbH",
			OverallScore: 1.8,
			RiskLevel:    string(session.RiskLow),
			Summary:      "Established freight operator with transparent ownership and clean regulatory history.",
			RedFlags:     []string{},
			RecommendedActions: []string{
				"Standard annual review cycle",
			},
			AgentFindings: []event.AgentFinding{
				{AgentName: session.AgentEntityDiscovery, Status: "complete", RiskContribution: 1.2,
					Findings: "Single-tier structure, two domestic subsidiaries."},
				{AgentName: session.AgentFinancialSignal, Status: "complete", RiskContribution: 2.0,
					Findings: "Stable revenue, conservative leverage."},
			},
			StartedAt:   now.Add(-72 * time.Hour),
			CompletedAt: now.Add(-72*time.Hour + 4*time.Minute),
		},
		{
			TargetName:   "Auric Commodities SA",
			OverallScore: 6.3,
			RiskLevel:    string(session.RiskHigh),
			Summary:      "Trading house with layered offshore holdings and two unresolved regulatory inquiries.",
			RedFlags: []string{
				"Holding chain terminates at a nominee-directed BVI entity",
				"Open inquiry by the Swiss financial regulator",
			},
			RecommendedActions: []string{
				"Request beneficial ownership documentation",
				"Escalate to enhanced due diligence",
			},
			AgentFindings: []event.AgentFinding{
				{AgentName: session.AgentEntityDiscovery, Status: "complete", RiskContribution: 7.0,
					Findings: "Four-tier offshore structure across BVI and Cyprus.",
					RedFlags: []string{"nominee directors"}},
				{AgentName: session.AgentLegalIntelligence, Status: "complete", RiskContribution: 6.5,
					Findings: "Two regulatory inquiries, one civil suit settled under seal."},
				{AgentName: session.AgentGeoJurisdiction, Status: "complete", RiskContribution: 5.5,
					Findings: "Significant exposure to high-opacity jurisdictions."},
			},
			StartedAt:   now.Add(-24 * time.Hour),
			CompletedAt: now.Add(-24*time.Hour + 5*time.Minute),
		},
		{
			TargetName:   "Helios Mining Corp",
			OverallScore: 8.7,
			RiskLevel:    string(session.RiskCritical),
			Summary:      "Extraction venture with sanctioned counterparties and executives linked to prior fraud proceedings.",
			RedFlags: []string{
				"Counterparty appears on two sanctions lists",
				"CFO named in a 2021 securities fraud action",
				"Concession rights disputed by host government",
			},
			RecommendedActions: []string{
				"Do not proceed with engagement",
				"File internal risk notification",
			},
			AgentFindings: []event.AgentFinding{
				{AgentName: session.AgentExecutiveBackground, Status: "complete", RiskContribution: 9.0,
					Findings: "CFO previously charged in securities fraud action; case settled.",
					RedFlags: []string{"executive litigation history"}},
				{AgentName: session.AgentSentimentNarrative, Status: "complete", RiskContribution: 8.0,
					Findings: "Sustained negative coverage in trade press over labor practices."},
			},
			StartedAt:   now.Add(-2 * time.Hour),
			CompletedAt: now.Add(-2*time.Hour + 6*time.Minute),
		},
	}
}
