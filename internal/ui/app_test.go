package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-console/internal/animate"
	"github.com/meridianhq/meridian-console/internal/event"
	"github.com/meridianhq/meridian-console/internal/session"
)

func TestThemeByName(t *testing.T) {
	for _, name := range themeOrder {
		_, ok := themeByName(name)
		assert.True(t, ok, name)
	}
	_, ok := themeByName("solarized")
	assert.False(t, ok)
}

func TestThemeRiskTags(t *testing.T) {
	theme := themeDark()
	assert.Equal(t, theme.TagRiskLow, theme.riskTag(1.0))
	assert.Equal(t, theme.TagRiskMedium, theme.riskTag(2.5))
	assert.Equal(t, theme.TagRiskHigh, theme.riskTag(5.0))
	assert.Equal(t, theme.TagRiskCritical, theme.riskTag(7.5))

	assert.Equal(t, theme.TagRiskHigh, theme.riskLevelTag("high"))
	assert.Equal(t, theme.TagMuted, theme.riskLevelTag("bogus"))

	assert.Equal(t, theme.RiskCritical, theme.riskLevelColor("CRITICAL"))
	assert.Equal(t, theme.RiskLow, theme.riskLevelColor(" low "))
	assert.Equal(t, theme.TableRowMuted, theme.riskLevelColor("bogus"))
}

func TestResolveTheme(t *testing.T) {
	name, _ := resolveTheme("light", false)
	assert.Equal(t, "light", name)

	name, _ = resolveTheme("auto", true)
	assert.Equal(t, "dark", name)
	name, _ = resolveTheme("auto", false)
	assert.Equal(t, "high-contrast", name)
	name, _ = resolveTheme("", false)
	assert.Equal(t, "high-contrast", name)
}

func TestRecordFromInvestigation(t *testing.T) {
	inv := session.Investigation{
		ID:         "inv-9",
		TargetName: "Acme Holdings",
		Phase:      session.PhaseComplete,
		Final: &session.FinalReport{
			OverallScore:       6.2,
			RiskLevel:          session.RiskHigh,
			Recommendation:     session.RecommendInvestigateFurther,
			Summary:            "Offshore exposure.",
			TopRedFlags:        []string{"nominee directors"},
			RecommendedActions: []string{"enhanced KYC"},
			AgentResults: []event.AgentFinding{
				{AgentName: session.AgentEntityDiscovery, Status: "complete", RiskContribution: 4.0},
			},
		},
	}
	rec := RecordFromInvestigation(inv)
	assert.Equal(t, "inv-9", rec.InvestigationID)
	assert.Equal(t, "Acme Holdings", rec.TargetName)
	assert.InDelta(t, 6.2, rec.OverallScore, 0.001)
	assert.Equal(t, "HIGH", rec.RiskLevel)
	assert.Equal(t, []string{"nominee directors"}, rec.RedFlags)
	assert.Len(t, rec.AgentFindings, 1)
	assert.False(t, rec.CompletedAt.IsZero())
}

func TestLiveViewUpdateAndTick(t *testing.T) {
	v := newLiveView(themeDark)

	inv := session.NewInvestigation("Acme Holdings")
	inv.Apply(event.InvestigationStarted{InvestigationID: "inv-1", Target: "Acme Holdings"}, nil)
	inv.Apply(event.AgentStarted{Agent: session.AgentEntityDiscovery}, nil)
	inv.Apply(event.AgentComplete{Agent: session.AgentEntityDiscovery, RiskScore: 6.0, Findings: "shell layering"}, nil)

	v.update("gen-1", *inv)
	g := v.gauges[session.AgentEntityDiscovery]
	require.NotNil(t, g)
	assert.InDelta(t, 6.0, g.Target(), 0.001)
	assert.InDelta(t, 0, g.Value(), 0.001)

	// Ticks for the live generation advance the gauge; stale ticks do not.
	assert.True(t, v.tick("gen-1"))
	assert.Greater(t, g.Value(), 0.0)
	before := g.Value()
	assert.False(t, v.tick("gen-2"))
	assert.Equal(t, before, g.Value())
}

func TestLiveViewGenerationChangeResetsAnimators(t *testing.T) {
	v := newLiveView(themeDark)

	inv := session.NewInvestigation("Acme Holdings")
	inv.Apply(event.InvestigationStarted{InvestigationID: "inv-1"}, nil)
	inv.Apply(event.AgentComplete{Agent: session.AgentFinancialSignal, RiskScore: 9.0}, nil)
	v.update("gen-1", *inv)
	for i := 0; i < 2*animate.GaugeSteps; i++ {
		v.tick("gen-1")
	}
	assert.InDelta(t, 9.0, v.gauges[session.AgentFinancialSignal].Value(), 0.001)

	// A new generation starts its gauges over from zero, dropping the
	// settled values of the old one.
	fresh := session.NewInvestigation("Borealis Partners")
	v.update("gen-2", *fresh)
	assert.Equal(t, "gen-2", v.genID)
	g := v.gauges[session.AgentFinancialSignal]
	require.NotNil(t, g)
	assert.Zero(t, g.Value())
	assert.Zero(t, g.Target())
}

func TestLiveViewThoughtSupersedes(t *testing.T) {
	v := newLiveView(themeDark)

	inv := session.NewInvestigation("Acme Holdings")
	inv.Apply(event.InvestigationStarted{InvestigationID: "inv-1"}, nil)
	inv.Apply(event.AgentStarted{Agent: session.AgentLegalIntelligence}, nil)
	inv.Apply(event.AgentThinking{Agent: session.AgentLegalIntelligence, Text: "checking dockets"}, nil)
	v.update("gen-1", *inv)

	for i := 0; i < 5; i++ {
		v.tick("gen-1")
	}
	assert.Equal(t, "check", v.reveal.Visible())

	inv.Apply(event.AgentThinking{Agent: session.AgentLegalIntelligence, Text: " in three districts"}, nil)
	v.update("gen-1", *inv)
	assert.Equal(t, "", v.reveal.Visible())
}

func TestLiveViewTickSettles(t *testing.T) {
	v := newLiveView(themeDark)

	inv := session.NewInvestigation("Acme Holdings")
	inv.Apply(event.InvestigationStarted{InvestigationID: "inv-1"}, nil)
	inv.Apply(event.AgentComplete{Agent: session.AgentGeoJurisdiction, RiskScore: 4.0}, nil)
	inv.Phase = session.PhaseComplete
	v.update("gen-1", *inv)

	settled := false
	for i := 0; i < 200; i++ {
		if !v.tick("gen-1") {
			settled = true
			break
		}
	}
	assert.True(t, settled, "animators should go quiescent")
	assert.InDelta(t, 4.0, v.gauges[session.AgentGeoJurisdiction].Value(), 0.001)
}

func TestCompletedLabel(t *testing.T) {
	assert.Equal(t, "-", completedLabel(session.HistoryRecord{}))
	at := time.Date(2026, 8, 1, 10, 4, 30, 0, time.UTC)
	assert.NotEqual(t, "-", completedLabel(session.HistoryRecord{CompletedAt: at}))
}
