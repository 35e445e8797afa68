package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/meridianhq/meridian-console/internal/animate"
	"github.com/meridianhq/meridian-console/internal/graphview"
	"github.com/meridianhq/meridian-console/internal/session"
)

// liveView renders one investigation: the progress header, the six
// specialist cards with animated score bars, the streaming thought
// ticker, the relationship graph, and the final verdict. All mutation
// happens on the tview event loop.
type liveView struct {
	root     *tview.Flex
	header   *tview.TextView
	progress *tview.TextView
	agents   *tview.TextView
	thoughts *tview.TextView
	graph    *tview.TextView
	final    *tview.TextView

	theme func() Theme

	// Animation state. Gauges trail the real scores; the reveal shows
	// the newest thinking fragment one rune at a time.
	gauges    map[string]*animate.Gauge
	progressG *animate.Gauge
	reveal    *animate.TextReveal
	spinFrame int

	// genID tags which session generation this view renders. Snapshots
	// and ticks for any other generation are discarded.
	genID string
	snap  session.Investigation

	// lastThought is the most recent reasoning buffer handed to the
	// reveal, so unchanged snapshots do not restart it.
	lastThought string
}

func newLiveView(theme func() Theme) *liveView {
	v := &liveView{
		theme:     theme,
		gauges:    make(map[string]*animate.Gauge, session.SpecialistCount),
		progressG: animate.NewGauge(0),
		reveal:    animate.NewTextReveal(),
	}

	v.header = tview.NewTextView().SetDynamicColors(true)
	v.progress = tview.NewTextView().SetDynamicColors(true)
	v.agents = tview.NewTextView().SetDynamicColors(true)
	v.agents.SetBorder(true).SetTitle(" Specialists ").SetTitleAlign(tview.AlignLeft)
	v.thoughts = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	v.thoughts.SetBorder(true).SetTitle(" Reasoning ").SetTitleAlign(tview.AlignLeft)
	v.graph = tview.NewTextView().SetDynamicColors(false)
	v.graph.SetBorder(true).SetTitle(" Relationships ").SetTitleAlign(tview.AlignLeft)
	v.final = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	v.final.SetBorder(true).SetTitle(" Risk Synthesis ").SetTitleAlign(tview.AlignLeft)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.graph, 0, 1, false).
		AddItem(v.final, 0, 2, false)
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.agents, 0, 2, false).
		AddItem(v.thoughts, 0, 1, false)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 1, 0, false).
		AddItem(v.progress, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(left, 0, 1, false).
			AddItem(right, 0, 1, false), 0, 1, false)
	return v
}

// update absorbs a session snapshot. Snapshots tagged with a different
// generation than the current one are dropped; a changed generation
// resets every animator first.
func (v *liveView) update(genID string, snap session.Investigation) {
	if genID != v.genID {
		v.resetAnimators()
		v.genID = genID
	}
	v.snap = snap

	for name, rec := range snap.Agents {
		g, ok := v.gauges[name]
		if !ok {
			g = animate.NewGauge(0)
			v.gauges[name] = g
		}
		if rec.Scored && g.Target() != rec.RiskScore {
			g.SetTarget(rec.RiskScore)
		}
		if rec.Status == session.AgentRunning && rec.Thought != v.lastThought {
			v.lastThought = rec.Thought
			v.reveal.Set(tail(rec.Thought, 240))
		}
	}
	if f := snap.ProgressFraction(); v.progressG.Target() != f {
		v.progressG.SetTarget(f)
	}
	v.render()
}

func (v *liveView) resetAnimators() {
	v.gauges = make(map[string]*animate.Gauge, session.SpecialistCount)
	v.progressG = animate.NewGauge(0)
	v.reveal = animate.NewTextReveal()
	v.lastThought = ""
	v.spinFrame = 0
}

// tick advances every animator one frame and reports whether anything
// is still moving. Called on the tview event loop by the runner.
func (v *liveView) tick(genID string) bool {
	if genID != v.genID {
		return false
	}
	moving := false
	for _, g := range v.gauges {
		if g.Tick() {
			moving = true
		}
	}
	if v.progressG.Tick() {
		moving = true
	}
	if v.reveal.Tick() {
		moving = true
	}
	if v.snap.Phase == session.PhaseRunning {
		v.spinFrame++
		moving = true
	}
	v.render()
	return moving
}

func (v *liveView) render() {
	theme := v.theme()
	snap := v.snap

	v.header.SetText(phaseLabel(theme, snap))

	_, _, pw, _ := v.progress.GetInnerRect()
	if pw < 10 {
		pw = 60
	}
	frac := v.progressG.Value()
	v.progress.SetText(fmt.Sprintf("[%s]%s[-] [%s]%d/%d agents[-]",
		theme.TagAccent, progressBar(frac, pw-12), theme.TagMuted,
		snap.CompletedCount, session.SpecialistCount))

	var cards strings.Builder
	for i, name := range session.Specialists() {
		rec := snap.Agents[name]
		if rec == nil {
			continue
		}
		display := rec.RiskScore
		if g, ok := v.gauges[name]; ok {
			display = g.Value()
		}
		if i > 0 {
			cards.WriteString("\n\n")
		}
		cards.WriteString(agentCard(theme, *rec, display, v.spinFrame))
	}
	v.agents.SetText(cards.String())

	v.renderThoughts(theme, snap)
	v.renderGraphPanel(snap)

	if snap.Final != nil {
		v.final.SetText(finalSummary(theme, snap.Final))
	} else if snap.Phase == session.PhaseFailed {
		v.final.SetText(fmt.Sprintf("[%s]%s[-]", theme.TagError, snap.FailureReason))
	} else {
		v.final.SetText(fmt.Sprintf("[%s]synthesis pending[-]", theme.TagMuted))
	}
}

func (v *liveView) renderThoughts(theme Theme, snap session.Investigation) {
	if snap.Phase != session.PhaseRunning {
		v.thoughts.SetText("")
		return
	}
	visible := v.reveal.Visible()
	if visible == "" || v.reveal.Retired() {
		v.thoughts.SetText("")
		return
	}
	v.thoughts.SetText(fmt.Sprintf("[%s]%s[-]", theme.TagMuted, tview.Escape(visible)))
}

func (v *liveView) renderGraphPanel(snap session.Investigation) {
	discovery := snap.Agents[session.AgentEntityDiscovery]
	if discovery == nil || !discovery.Scored {
		v.graph.SetText("")
		return
	}
	in := graphview.InputFromFinding(snap.TargetName, discovery.Findings)
	_, _, gw, gh := v.graph.GetInnerRect()
	if gw < 20 {
		gw, gh = 72, 18
	}
	layout := graphview.Build(in, float64(gw)*8)
	v.graph.SetText(renderGraph(layout, gw, gh))
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
