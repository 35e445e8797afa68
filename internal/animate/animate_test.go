package animate

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaugeReachesTargetInFixedSteps(t *testing.T) {
	g := NewGauge(0)
	g.SetTarget(8.0)

	ticks := 0
	for !g.Done() {
		g.Tick()
		ticks++
		require.Less(t, ticks, 100, "gauge never settled")
	}

	assert.Equal(t, GaugeSteps, ticks)
	assert.Equal(t, 8.0, g.Value())
}

func TestGaugeRetargetMidFlight(t *testing.T) {
	g := NewGauge(0)
	g.SetTarget(10)
	g.Tick()
	g.Tick()
	midway := g.Value()

	// The latest target wins; no queueing of the old trajectory.
	g.SetTarget(2)
	for i := 0; i < GaugeSteps; i++ {
		g.Tick()
	}

	assert.Greater(t, midway, 0.0)
	assert.Equal(t, 2.0, g.Value())
	assert.True(t, g.Done())
}

func TestGaugeDownward(t *testing.T) {
	g := NewGauge(9)
	g.SetTarget(3)
	for g.Tick() {
	}
	assert.Equal(t, 3.0, g.Value())
}

func TestGaugeTickWhenSettledIsNoOp(t *testing.T) {
	g := NewGauge(5)
	assert.False(t, g.Tick())
	assert.Equal(t, 5.0, g.Value())
}

func TestTextRevealOneRunePerTick(t *testing.T) {
	r := NewTextReveal()
	r.Set("risk")

	assert.Equal(t, "", r.Visible())
	r.Tick()
	assert.Equal(t, "r", r.Visible())
	r.Tick()
	r.Tick()
	r.Tick()
	assert.Equal(t, "risk", r.Visible())
	assert.False(t, r.Retired(), "linger period not yet elapsed")
}

func TestTextRevealRetiresAfterLinger(t *testing.T) {
	r := NewTextReveal()
	r.Set("ab")

	ticks := 0
	for r.Tick() {
		ticks++
		require.Less(t, ticks, 200)
	}
	assert.True(t, r.Retired())
	assert.Equal(t, "ab", r.Visible())
}

func TestTextRevealSupersedes(t *testing.T) {
	r := NewTextReveal()
	r.Set("first thought")
	r.Tick()
	r.Tick()

	r.Set("second")
	assert.Equal(t, "", r.Visible(), "new text restarts the reveal")
	r.Tick()
	assert.Equal(t, "s", r.Visible())
}

func TestTextRevealMultibyte(t *testing.T) {
	r := NewTextReveal()
	r.Set("Zürich")
	r.Tick()
	r.Tick()
	assert.Equal(t, "Zü", r.Visible())
}

func TestRunnerTicksAndStops(t *testing.T) {
	var ticks atomic.Int64
	r := NewRunner(time.Millisecond, func() { ticks.Add(1) })
	r.Start()

	require.Eventually(t, func() bool { return ticks.Load() >= 3 },
		time.Second, time.Millisecond)

	r.Stop()
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load(), "no ticks after Stop returns")

	// Stop is idempotent even without Start having been called.
	unused := NewRunner(time.Millisecond, func() {})
	unused.Stop()
	unused.Stop()
}
