package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/meridianhq/meridian-console/internal/graphview"
	"github.com/meridianhq/meridian-console/internal/session"
)

// scoreBarCells is the character width of an agent card's score bar.
const scoreBarCells = 20

// progressBar renders a filled/unfilled bar for a fraction in [0,1].
func progressBar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// scoreBar renders a 0..10 score as a fixed-width bar.
func scoreBar(score float64) string {
	return progressBar(score/10, scoreBarCells)
}

// statusGlyph is the one-cell marker in front of an agent card.
func statusGlyph(status session.AgentStatus, spinFrame int) string {
	switch status {
	case session.AgentComplete:
		return "✓"
	case session.AgentRunning:
		return spinnerFrames[spinFrame%len(spinnerFrames)]
	default:
		return "·"
	}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// agentCard renders one specialist's card as tview markup. displayScore
// is the animated gauge value, which trails rec.RiskScore until the
// gauge settles.
func agentCard(theme Theme, rec session.AgentRecord, displayScore float64, spinFrame int) string {
	var b strings.Builder

	glyph := statusGlyph(rec.Status, spinFrame)
	switch rec.Status {
	case session.AgentComplete:
		fmt.Fprintf(&b, "[%s]%s[-] [%s::b]%s[-::-]", theme.TagSuccess, glyph, theme.TagTextPrimary, rec.Name)
	case session.AgentRunning:
		fmt.Fprintf(&b, "[%s]%s[-] [%s::b]%s[-::-]", theme.TagAccent, glyph, theme.TagTextPrimary, rec.Name)
	default:
		fmt.Fprintf(&b, "[%s]%s %s[-]", theme.TagMuted, glyph, rec.Name)
	}
	b.WriteByte('\n')

	if rec.Scored {
		fmt.Fprintf(&b, "[%s]%s[-] [%s]%.1f[-]", theme.riskTag(rec.RiskScore), scoreBar(displayScore), theme.TagTextPrimary, displayScore)
		if len(rec.RedFlags) > 0 {
			fmt.Fprintf(&b, "  [%s]%d flag", theme.TagWarning, len(rec.RedFlags))
			if len(rec.RedFlags) > 1 {
				b.WriteByte('s')
			}
			b.WriteString("[-]")
		}
	} else {
		fmt.Fprintf(&b, "[%s]%s[-]", theme.TagMuted, scoreBar(0))
	}
	return b.String()
}

// canvas is a rune grid the relationship graph is drawn onto. Terminal
// cells are roughly twice as tall as wide, so layout Y coordinates are
// compressed by cellAspect when mapped to rows.
type canvas struct {
	w, h  int
	cells [][]rune
}

const cellAspect = 0.5

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for i := range cells {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r)
	}
}

// line draws a dotted segment, skipping the endpoints so node labels are
// not overwritten.
func (c *canvas) line(x0, y0, x1, y1 int) {
	steps := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0))))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		if i%2 == 0 {
			c.set(x, y, '·')
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for i, row := range c.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// renderGraph draws a relationship layout into a width x height cell
// grid. An empty layout renders the no-relationships placeholder.
func renderGraph(l *graphview.Layout, width, height int) string {
	if l == nil || l.Empty() {
		return "no relationships found"
	}
	if width < 20 {
		width = 20
	}
	if height < 9 {
		height = 9
	}

	c := newCanvas(width, height)
	pos := make(map[string][2]int, len(l.Nodes))

	// Layout coordinates are in an abstract viewport; rescale into the
	// cell grid with the terminal aspect correction.
	sx := float64(width-2) / l.Width
	sy := float64(height-2) / (l.Height * cellAspect)
	if sy > sx {
		sy = sx
	}
	toCell := func(n graphview.Node) (int, int) {
		x := int(math.Round(n.X * sx))
		y := int(math.Round(n.Y * cellAspect * sy))
		return x, y
	}

	for _, n := range l.Nodes {
		x, y := toCell(n)
		pos[n.ID] = [2]int{x, y}
	}
	for _, e := range l.Edges {
		from, to := pos[e.From], pos[e.To]
		c.line(from[0], from[1], to[0], to[1])
	}
	for _, n := range l.Nodes {
		x, y := toCell(n)
		label := n.Label
		if n.Role == graphview.RolePrimary {
			label = "◆ " + label
		} else {
			label = "○ " + label
		}
		c.text(x-len([]rune(label))/2, y, label)
		if n.Jurisdiction != "" {
			juris := "(" + n.Jurisdiction + ")"
			c.text(x-len([]rune(juris))/2, y+1, juris)
		}
	}
	return c.String()
}

// phaseLabel is the markup header line for the live view.
func phaseLabel(theme Theme, inv session.Investigation) string {
	switch inv.Phase {
	case session.PhaseNotStarted:
		return fmt.Sprintf("[%s]waiting for stream[-]", theme.TagMuted)
	case session.PhaseRunning:
		agent := inv.CurrentAgent
		if agent == "" {
			agent = "starting"
		}
		return fmt.Sprintf("[%s]investigating[-] [%s::b]%s[-::-]  [%s]%s[-]",
			theme.TagAccent, theme.TagTextPrimary, inv.TargetName, theme.TagMuted, agent)
	case session.PhaseComplete:
		return fmt.Sprintf("[%s::b]investigation complete[-::-]  [%s]%s[-]",
			theme.TagSuccess, theme.TagTextPrimary, inv.TargetName)
	default:
		return fmt.Sprintf("[%s::b]investigation failed[-::-]  [%s]%s[-]",
			theme.TagError, theme.TagMuted, inv.FailureReason)
	}
}

// finalSummary renders the synthesized verdict block as tview markup.
func finalSummary(theme Theme, final *session.FinalReport) string {
	if final == nil {
		return ""
	}
	var b strings.Builder
	tag := theme.riskTag(final.OverallScore)
	fmt.Fprintf(&b, "[%s::b]OVERALL RISK %.1f / 10  %s[-::-]\n", tag, final.OverallScore, final.RiskLevel)
	fmt.Fprintf(&b, "[%s::b]RECOMMENDATION: %s[-::-]\n\n", tag, final.Recommendation)

	if final.Summary != "" {
		fmt.Fprintf(&b, "[%s]%s[-]\n\n", theme.TagTextPrimary, final.Summary)
	}
	if len(final.TopRedFlags) > 0 {
		fmt.Fprintf(&b, "[%s::b]RED FLAGS[-::-]\n", theme.TagWarning)
		for i, f := range final.TopRedFlags {
			fmt.Fprintf(&b, "[%s]%2d.[-] [%s]%s[-]\n", theme.TagMuted, i+1, theme.TagTextPrimary, f)
		}
		b.WriteByte('\n')
	}
	if len(final.RecommendedActions) > 0 {
		fmt.Fprintf(&b, "[%s::b]RECOMMENDED ACTIONS[-::-]\n", theme.TagAccent)
		for i, a := range final.RecommendedActions {
			fmt.Fprintf(&b, "[%s]%2d.[-] [%s]%s[-]\n", theme.TagMuted, i+1, theme.TagTextPrimary, a)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
