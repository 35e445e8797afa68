// Package animate provides cooperative, tick-driven value interpolation
// for the TUI: score gauges, progress counters, and character-reveal text.
// The animation cores are pure functions of ticks so they can be tested
// without a clock; Runner supplies the clock.
package animate

// GaugeSteps is how many ticks a gauge takes to reach a fresh target.
const GaugeSteps = 8

// Gauge advances a displayed numeric value toward a target in fixed
// steps. Retargeting mid-flight is not queued: the latest target wins and
// the remaining trajectory simply bends toward it.
type Gauge struct {
	current float64
	target  float64
	step    float64
}

// NewGauge returns a gauge displaying start.
func NewGauge(start float64) *Gauge {
	return &Gauge{current: start, target: start}
}

// SetTarget redirects the gauge. The step size is recomputed so the new
// target is reached in GaugeSteps ticks from wherever the display is now.
func (g *Gauge) SetTarget(target float64) {
	g.target = target
	g.step = (target - g.current) / GaugeSteps
}

// Tick advances one step and reports whether the gauge is still moving.
func (g *Gauge) Tick() bool {
	if g.Done() {
		return false
	}
	g.current += g.step
	// Clamp on overshoot so a retarget mid-flight still lands exactly.
	if (g.step > 0 && g.current >= g.target) || (g.step < 0 && g.current <= g.target) {
		g.current = g.target
	}
	return !g.Done()
}

// Value returns the currently displayed value.
func (g *Gauge) Value() float64 { return g.current }

// Target returns the value the gauge is heading toward.
func (g *Gauge) Target() float64 { return g.target }

// Done reports whether the display has reached the target.
func (g *Gauge) Done() bool { return g.current == g.target }

// RevealLingerTicks is how long a fully revealed text stays before the
// reveal retires.
const RevealLingerTicks = 20

// TextReveal shows a string one rune per tick, then lingers for a fixed
// number of ticks before reporting retirement. Setting new text restarts
// the reveal; in-flight reveals are superseded, never queued.
type TextReveal struct {
	runes    []rune
	shown    int
	lingered int
}

// NewTextReveal returns an empty, retired reveal.
func NewTextReveal() *TextReveal {
	return &TextReveal{}
}

// Set replaces the text being revealed and restarts from zero.
func (r *TextReveal) Set(text string) {
	r.runes = []rune(text)
	r.shown = 0
	r.lingered = 0
}

// Tick advances by one rune (or one linger tick once fully shown) and
// reports whether the reveal is still live.
func (r *TextReveal) Tick() bool {
	if r.shown < len(r.runes) {
		r.shown++
		return true
	}
	if r.lingered < RevealLingerTicks {
		r.lingered++
		return r.lingered < RevealLingerTicks
	}
	return false
}

// Visible returns the revealed prefix.
func (r *TextReveal) Visible() string {
	return string(r.runes[:r.shown])
}

// Retired reports whether the full text has been shown and the linger
// period has elapsed.
func (r *TextReveal) Retired() bool {
	return r.shown == len(r.runes) && r.lingered >= RevealLingerTicks
}
