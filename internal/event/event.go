package event

import (
	"encoding/json"
	"fmt"
)

// Type discriminates the wire events emitted by the Meridian backend.
type Type string

const (
	TypeInvestigationStarted  Type = "investigation_started"
	TypeAgentStarted          Type = "agent_started"
	TypeAgentThinking         Type = "agent_thinking"
	TypeAgentComplete         Type = "agent_complete"
	TypeInvestigationComplete Type = "investigation_complete"
	TypeStreamEnd             Type = "stream_end"
)

// Event is the closed set of stream event variants. The marker method keeps
// the set sealed so a type switch over variants is exhaustive by construction.
type Event interface {
	EventType() Type
}

// AgentFinding mirrors the backend's per-agent result document, both inside
// investigation_complete payloads and in stored investigation records.
type AgentFinding struct {
	AgentName        string   `json:"agent_name"`
	Status           string   `json:"status"`
	Findings         string   `json:"findings"`
	RiskContribution float64  `json:"risk_contribution"`
	RedFlags         []string `json:"red_flags"`
	CompletedAt      string   `json:"completed_at,omitempty"`
}

// InvestigationStarted announces a new investigation and carries its ID.
type InvestigationStarted struct {
	InvestigationID string
	Target          string
}

// AgentStarted marks one agent as running.
type AgentStarted struct {
	Agent string
}

// AgentThinking carries a chunk of intermediate reasoning text. Purely
// observational; any volume may arrive, including none.
type AgentThinking struct {
	Agent string
	Text  string
}

// AgentComplete carries one agent's final sub-score and findings.
type AgentComplete struct {
	Agent     string
	RiskScore float64
	Findings  string
	RedFlags  []string
}

// InvestigationComplete is the synthesized final report. It is the only
// event carrying the authoritative overall score and recommendation.
type InvestigationComplete struct {
	InvestigationID       string
	Target                string
	OverallRiskScore      float64
	RiskLevel             string
	ExecutiveSummary      string
	TopRedFlags           []string
	RecommendedActions    []string
	ProceedRecommendation string
	AgentFindings         []AgentFinding
}

// StreamEnd is the terminal marker appended by the backend after all events.
type StreamEnd struct{}

func (InvestigationStarted) EventType() Type  { return TypeInvestigationStarted }
func (AgentStarted) EventType() Type          { return TypeAgentStarted }
func (AgentThinking) EventType() Type         { return TypeAgentThinking }
func (AgentComplete) EventType() Type         { return TypeAgentComplete }
func (InvestigationComplete) EventType() Type { return TypeInvestigationComplete }
func (StreamEnd) EventType() Type             { return TypeStreamEnd }

// wireEvent is the superset of fields across all six variants.
type wireEvent struct {
	Event                 string         `json:"event"`
	InvestigationID       string         `json:"investigation_id"`
	Target                string         `json:"target"`
	Agent                 string         `json:"agent"`
	Text                  string         `json:"text"`
	RiskScore             float64        `json:"risk_score"`
	Findings              string         `json:"findings"`
	RedFlags              []string       `json:"red_flags"`
	OverallRiskScore      float64        `json:"overall_risk_score"`
	RiskLevel             string         `json:"risk_level"`
	ExecutiveSummary      string         `json:"executive_summary"`
	TopRedFlags           []string       `json:"top_red_flags"`
	RecommendedActions    []string       `json:"recommended_actions"`
	ProceedRecommendation string         `json:"proceed_recommendation"`
	AgentFindings         []AgentFinding `json:"agent_findings"`
}

// Parse decodes one frame payload into a typed event. Malformed JSON or an
// unknown discriminator is an error; callers drop the frame and continue.
func Parse(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}

	switch Type(w.Event) {
	case TypeInvestigationStarted:
		return InvestigationStarted{
			InvestigationID: w.InvestigationID,
			Target:          w.Target,
		}, nil
	case TypeAgentStarted:
		return AgentStarted{Agent: w.Agent}, nil
	case TypeAgentThinking:
		return AgentThinking{Agent: w.Agent, Text: w.Text}, nil
	case TypeAgentComplete:
		return AgentComplete{
			Agent:     w.Agent,
			RiskScore: w.RiskScore,
			Findings:  w.Findings,
			RedFlags:  w.RedFlags,
		}, nil
	case TypeInvestigationComplete:
		return InvestigationComplete{
			InvestigationID:       w.InvestigationID,
			Target:                w.Target,
			OverallRiskScore:      w.OverallRiskScore,
			RiskLevel:             w.RiskLevel,
			ExecutiveSummary:      w.ExecutiveSummary,
			TopRedFlags:           w.TopRedFlags,
			RecommendedActions:    w.RecommendedActions,
			ProceedRecommendation: w.ProceedRecommendation,
			AgentFindings:         w.AgentFindings,
		}, nil
	case TypeStreamEnd:
		return StreamEnd{}, nil
	case "":
		return nil, fmt.Errorf("event payload missing discriminator")
	default:
		return nil, fmt.Errorf("unknown event type %q", w.Event)
	}
}
