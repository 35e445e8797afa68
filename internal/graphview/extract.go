package graphview

import (
	"encoding/json"
	"strings"
)

// corporateData matches the Entity Discovery structure document the
// backend builds before reasoning over it. Some deployments embed it in
// the findings text; absent or malformed, the graph degrades to a
// primary-only layout.
type corporateData struct {
	PrimaryEntity struct {
		Name         string `json:"name"`
		Jurisdiction string `json:"jurisdiction"`
	} `json:"primary_entity"`
	SubsidiarySample []struct {
		Name         string `json:"name"`
		Jurisdiction string `json:"jurisdiction"`
	} `json:"subsidiary_sample"`
	RelatedEntities []struct {
		Name         string `json:"name"`
		Jurisdiction string `json:"jurisdiction"`
	} `json:"related_entities"`
}

// InputFromFinding assembles graph input from the Entity Discovery
// finding. The target name anchors the primary node when no structured
// data is embedded.
func InputFromFinding(target, findings string) Input {
	in := Input{Primary: Entity{Name: target}}

	start := strings.Index(findings, "{")
	end := strings.LastIndex(findings, "}")
	if start < 0 || end <= start {
		return in
	}

	var cd corporateData
	if err := json.Unmarshal([]byte(findings[start:end+1]), &cd); err != nil {
		return in
	}

	if cd.PrimaryEntity.Name != "" {
		in.Primary = Entity{Name: cd.PrimaryEntity.Name, Jurisdiction: cd.PrimaryEntity.Jurisdiction}
	}
	for _, s := range cd.SubsidiarySample {
		in.Subsidiaries = append(in.Subsidiaries, Entity{Name: s.Name, Jurisdiction: s.Jurisdiction})
	}
	for _, r := range cd.RelatedEntities {
		in.Related = append(in.Related, Entity{Name: r.Name, Jurisdiction: r.Jurisdiction})
	}
	return in
}
