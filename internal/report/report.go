// Package report assembles the exportable plain-text due-diligence
// report from a completed investigation. Field order is fixed so exports
// diff cleanly between runs.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/meridianhq/meridian-console/internal/session"
)

const rule = "================================================================"

// Render produces the plain-text report for a stored investigation.
// Deterministic: header, target, date, id, risk block, red flags,
// executive summary, per-agent findings, recommended actions, footer.
func Render(rec session.HistoryRecord) string {
	var b strings.Builder

	level := session.ParseRiskLevel(rec.RiskLevel, rec.OverallScore)
	recommendation := session.RecommendationForScore(rec.OverallScore)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "MERIDIAN DUE DILIGENCE REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Target:        %s\n", rec.TargetName)
	fmt.Fprintf(&b, "Date:          %s\n", reportDate(rec))
	fmt.Fprintf(&b, "Investigation: %s\n", rec.InvestigationID)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Overall Risk Score: %.1f / 10\n", rec.OverallScore)
	fmt.Fprintf(&b, "Risk Level:         %s\n", level)
	fmt.Fprintf(&b, "Recommendation:     %s\n", recommendation)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "RED FLAGS")
	if len(rec.RedFlags) == 0 {
		fmt.Fprintln(&b, "  none recorded")
	}
	for i, flag := range rec.RedFlags {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, flag)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "EXECUTIVE SUMMARY")
	fmt.Fprintln(&b, indent(rec.Summary))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "AGENT FINDINGS")
	for _, f := range rec.AgentFindings {
		fmt.Fprintf(&b, "  [%s] %s (score %.1f)\n", f.Status, f.AgentName, f.RiskContribution)
		if f.Findings != "" {
			fmt.Fprintln(&b, indent(f.Findings))
		}
		for _, flag := range f.RedFlags {
			fmt.Fprintf(&b, "    - %s\n", flag)
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "RECOMMENDED ACTIONS")
	if len(rec.RecommendedActions) == 0 {
		fmt.Fprintln(&b, "  none recorded")
	}
	for i, action := range rec.RecommendedActions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, action)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Generated by meridian-console")
	fmt.Fprintln(&b, rule)

	return b.String()
}

func reportDate(rec session.HistoryRecord) string {
	at := rec.CompletedAt
	if at.IsZero() {
		at = rec.StartedAt
	}
	if at.IsZero() {
		return "unknown"
	}
	return at.UTC().Format(time.RFC3339)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
