package session

// The six specialist agents, in the order the backend dispatches them.
// Cards render in this order so runs are visually comparable.
const (
	AgentEntityDiscovery     = "Entity Discovery"
	AgentFinancialSignal     = "Financial Signal"
	AgentLegalIntelligence   = "Legal Intelligence"
	AgentExecutiveBackground = "Executive Background"
	AgentSentimentNarrative  = "Sentiment & Narrative"
	AgentGeoJurisdiction     = "Geo & Jurisdiction"
)

// SynthesisAgent aggregates the specialists' findings into the final
// report. It has no card of its own and is tracked separately.
const SynthesisAgent = "Risk Synthesis"

// Specialists returns the fixed specialist set in dispatch order.
func Specialists() []string {
	return []string{
		AgentEntityDiscovery,
		AgentFinancialSignal,
		AgentLegalIntelligence,
		AgentExecutiveBackground,
		AgentSentimentNarrative,
		AgentGeoJurisdiction,
	}
}

// SpecialistCount is the denominator of the pre-synthesis progress fraction.
const SpecialistCount = 6

// IsSpecialist reports whether name is one of the six fixed specialists.
func IsSpecialist(name string) bool {
	switch name {
	case AgentEntityDiscovery, AgentFinancialSignal, AgentLegalIntelligence,
		AgentExecutiveBackground, AgentSentimentNarrative, AgentGeoJurisdiction:
		return true
	}
	return false
}
