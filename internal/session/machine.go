package session

import (
	"io"
	"log"
	"time"

	"github.com/meridianhq/meridian-console/internal/event"
)

// Phase is the lifecycle state of a whole investigation.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// AgentStatus is the lifecycle state of one specialist. Transitions are
// monotonic: Waiting -> Running -> Complete, no back-transitions.
type AgentStatus string

const (
	AgentWaiting  AgentStatus = "waiting"
	AgentRunning  AgentStatus = "running"
	AgentComplete AgentStatus = "complete"
)

// thoughtCap bounds the transient per-agent reasoning buffer. Thinking
// events may arrive in any volume; only the tail is worth showing.
const thoughtCap = 2000

// AgentRecord tracks one specialist's progress and result.
type AgentRecord struct {
	Name      string
	Status    AgentStatus
	RiskScore float64
	Scored    bool
	Findings  string
	RedFlags  []string
	Thought   string
}

// FinalReport is the synthesized terminal result of an investigation.
// Immutable once constructed.
type FinalReport struct {
	OverallScore       float64
	RiskLevel          RiskLevel
	Recommendation     Recommendation
	TopRedFlags        []string
	Summary            string
	RecommendedActions []string
	AgentResults       []event.AgentFinding
}

// HistoryRecord is a stored, completed investigation: a FinalReport plus
// identifying metadata. Read-only to this client; only ever deleted whole.
type HistoryRecord struct {
	InvestigationID    string               `json:"investigation_id"`
	TargetName         string               `json:"target_name"`
	OverallScore       float64              `json:"overall_risk_score"`
	RiskLevel          string               `json:"risk_level"`
	Summary            string               `json:"summary"`
	RedFlags           []string             `json:"red_flags"`
	RecommendedActions []string             `json:"recommended_actions"`
	AgentFindings      []event.AgentFinding `json:"agent_findings"`
	StartedAt          time.Time            `json:"started_at"`
	CompletedAt        time.Time            `json:"completed_at"`
}

// Investigation is the single source of truth for one live session. It is
// owned exclusively by its Session; everything else reads snapshots.
type Investigation struct {
	ID             string
	TargetName     string
	Phase          Phase
	Agents         map[string]*AgentRecord
	CompletedCount int
	SynthesisSeen  bool
	CurrentAgent   string
	Final          *FinalReport
	FailureReason  string
}

// NewInvestigation returns a fresh investigation in NotStarted with every
// specialist Waiting. No partial carry-over between sessions is permitted,
// so callers always replace the previous value wholesale.
func NewInvestigation(target string) *Investigation {
	agents := make(map[string]*AgentRecord, SpecialistCount)
	for _, name := range Specialists() {
		agents[name] = &AgentRecord{Name: name, Status: AgentWaiting}
	}
	return &Investigation{
		TargetName: target,
		Phase:      PhaseNotStarted,
		Agents:     agents,
	}
}

// ProgressFraction is completedSpecialists/6 while specialists run and
// exactly 1.0 once the synthesis result has been recorded. Derived on
// every call, never stored.
func (inv Investigation) ProgressFraction() float64 {
	if inv.SynthesisSeen || inv.Phase == PhaseComplete {
		return 1.0
	}
	return float64(inv.CompletedCount) / float64(SpecialistCount)
}

// Apply folds one event into the investigation. Events must arrive in
// stream order from a single goroutine. Protocol-order violations are
// accepted best-effort and logged as anomalous; nothing here panics or
// returns an error, because a live stream cannot be replayed.
func (inv *Investigation) Apply(ev event.Event, logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	switch e := ev.(type) {
	case event.InvestigationStarted:
		if inv.Phase != PhaseNotStarted {
			logger.Printf("anomalous investigation_started in phase %s, ignoring", inv.Phase)
			return
		}
		inv.ID = e.InvestigationID
		if e.Target != "" {
			inv.TargetName = e.Target
		}
		inv.Phase = PhaseRunning
		for _, rec := range inv.Agents {
			rec.Status = AgentWaiting
		}

	case event.AgentStarted:
		inv.ensureRunning(logger, "agent_started")
		inv.CurrentAgent = e.Agent
		if e.Agent == SynthesisAgent {
			return
		}
		rec, ok := inv.Agents[e.Agent]
		if !ok {
			logger.Printf("agent_started for unknown agent %q, ignoring", e.Agent)
			return
		}
		// Idempotent: re-affirms Running, never regresses Complete.
		if rec.Status == AgentWaiting {
			rec.Status = AgentRunning
		}

	case event.AgentThinking:
		rec, ok := inv.Agents[e.Agent]
		if !ok {
			return
		}
		rec.Thought += e.Text
		if over := len(rec.Thought) - thoughtCap; over > 0 {
			rec.Thought = rec.Thought[over:]
		}

	case event.AgentComplete:
		inv.ensureRunning(logger, "agent_complete")
		if e.Agent == SynthesisAgent {
			inv.SynthesisSeen = true
			logger.Printf("synthesis complete, score=%.1f", e.RiskScore)
			return
		}
		rec, ok := inv.Agents[e.Agent]
		if !ok {
			logger.Printf("agent_complete for unknown agent %q, ignoring", e.Agent)
			return
		}
		if rec.Status != AgentComplete {
			inv.CompletedCount++
		}
		rec.Status = AgentComplete
		rec.RiskScore = e.RiskScore
		rec.Scored = true
		rec.Findings = e.Findings
		rec.RedFlags = e.RedFlags

	case event.InvestigationComplete:
		inv.ensureRunning(logger, "investigation_complete")
		if e.InvestigationID != "" {
			inv.ID = e.InvestigationID
		}
		inv.Final = &FinalReport{
			OverallScore:       e.OverallRiskScore,
			RiskLevel:          ParseRiskLevel(e.RiskLevel, e.OverallRiskScore),
			Recommendation:     ParseRecommendation(e.ProceedRecommendation),
			TopRedFlags:        e.TopRedFlags,
			Summary:            e.ExecutiveSummary,
			RecommendedActions: e.RecommendedActions,
			AgentResults:       e.AgentFindings,
		}
		inv.Phase = PhaseComplete

	case event.StreamEnd:
		if inv.Phase == PhaseRunning || inv.Phase == PhaseNotStarted {
			inv.Phase = PhaseFailed
			inv.FailureReason = "stream ended before synthesis completed"
			logger.Printf("stream_end while %s: marking failed", PhaseRunning)
		}
	}
}

// Fail marks the investigation failed with a reason, used for transport
// errors. A completed investigation is never demoted.
func (inv *Investigation) Fail(reason string) {
	if inv.Phase == PhaseComplete {
		return
	}
	inv.Phase = PhaseFailed
	inv.FailureReason = reason
}

// ensureRunning implicitly starts the investigation when an event that
// requires Running arrives first. Defensive acceptance per the protocol:
// log the anomaly, never crash.
func (inv *Investigation) ensureRunning(logger *log.Logger, cause string) {
	if inv.Phase == PhaseNotStarted {
		logger.Printf("anomalous %s before investigation_started: implicitly starting", cause)
		inv.Phase = PhaseRunning
	}
}

// ReplayHistorical reconstructs a terminal investigation from a stored
// record without ever entering Running, so no live progress is rendered
// for replayed history. The recommendation is not stored historically and
// is derived from the overall score with the shared thresholds.
func ReplayHistorical(rec HistoryRecord) *Investigation {
	inv := NewInvestigation(rec.TargetName)
	inv.ID = rec.InvestigationID
	inv.Phase = PhaseComplete

	for _, f := range rec.AgentFindings {
		agent, ok := inv.Agents[f.AgentName]
		if !ok {
			// Synthesis rides along in stored findings; specialists only.
			continue
		}
		agent.Status = AgentComplete
		agent.RiskScore = f.RiskContribution
		agent.Scored = true
		agent.Findings = f.Findings
		agent.RedFlags = f.RedFlags
		inv.CompletedCount++
	}
	inv.SynthesisSeen = true

	inv.Final = &FinalReport{
		OverallScore:       rec.OverallScore,
		RiskLevel:          ParseRiskLevel(rec.RiskLevel, rec.OverallScore),
		Recommendation:     RecommendationForScore(rec.OverallScore),
		TopRedFlags:        rec.RedFlags,
		Summary:            rec.Summary,
		RecommendedActions: rec.RecommendedActions,
		AgentResults:       rec.AgentFindings,
	}
	return inv
}

// Snapshot is a deep copy of Investigation state safe to read outside the
// owning session.
func (inv *Investigation) snapshot() Investigation {
	out := *inv
	out.Agents = make(map[string]*AgentRecord, len(inv.Agents))
	for name, rec := range inv.Agents {
		cp := *rec
		cp.RedFlags = append([]string(nil), rec.RedFlags...)
		out.Agents[name] = &cp
	}
	if inv.Final != nil {
		final := *inv.Final
		final.TopRedFlags = append([]string(nil), inv.Final.TopRedFlags...)
		final.RecommendedActions = append([]string(nil), inv.Final.RecommendedActions...)
		final.AgentResults = append([]event.AgentFinding(nil), inv.Final.AgentResults...)
		out.Final = &final
	}
	return out
}
