// Package history holds the interaction state for browsing stored
// investigations: normal browsing, multi-select for bulk deletion, and
// pairwise compare. The three modes are mutually exclusive; the
// controller is pure state, UI-agnostic, and drives rendering through
// its accessors.
package history

import (
	"errors"
	"sort"
)

// Mode is the current interaction mode.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeMultiSelect Mode = "multi_select"
	ModeCompare     Mode = "compare"
)

// ErrNotEnoughRecords is returned when compare mode is requested with
// fewer than two records available.
var ErrNotEnoughRecords = errors.New("compare requires at least two investigations")

// Controller tracks selection state over a list of history records.
// MultiSelect membership is keyed by record id (unbounded); compare holds
// an ordered pair of at most two list indices.
type Controller struct {
	mode      Mode
	selected  map[string]bool
	pair      []int
	onCompare func(a, b int)
}

// NewController starts in Normal mode. onCompare fires the moment a
// compare pair reaches two members; it may be nil.
func NewController(onCompare func(a, b int)) *Controller {
	return &Controller{
		mode:      ModeNormal,
		selected:  make(map[string]bool),
		onCompare: onCompare,
	}
}

// Mode returns the active interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// EnterMultiSelect switches modes and clears any previous selection.
func (c *Controller) EnterMultiSelect() {
	c.reset()
	c.mode = ModeMultiSelect
}

// ToggleSelect flips membership of id and reports whether it is now
// selected. Outside MultiSelect mode it is ignored.
func (c *Controller) ToggleSelect(id string) bool {
	if c.mode != ModeMultiSelect {
		return false
	}
	if c.selected[id] {
		delete(c.selected, id)
		return false
	}
	c.selected[id] = true
	return true
}

// Selected reports whether id is currently selected.
func (c *Controller) Selected(id string) bool { return c.selected[id] }

// SelectedIDs returns the selection sorted for deterministic iteration.
func (c *Controller) SelectedIDs() []string {
	out := make([]string, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ConsumeSelection hands back the selection for a bulk action (one
// removal request per id) and returns the controller to Normal.
func (c *Controller) ConsumeSelection() []string {
	ids := c.SelectedIDs()
	c.Reset()
	return ids
}

// EnterCompare switches to compare mode. Fails fast, staying in Normal,
// when fewer than two records exist to compare.
func (c *Controller) EnterCompare(available int) error {
	c.reset()
	if available < 2 {
		return ErrNotEnoughRecords
	}
	c.mode = ModeCompare
	return nil
}

// ToggleCompare flips membership of a list index in the compare pair.
// Toggling off always succeeds; adding a third member while two are held
// is ignored, not queued. The moment the pair reaches two, onCompare
// fires with both indices and the controller resets to Normal — the
// emitted comparison view outlives the mode.
func (c *Controller) ToggleCompare(index int) {
	if c.mode != ModeCompare {
		return
	}
	for i, held := range c.pair {
		if held == index {
			c.pair = append(c.pair[:i], c.pair[i+1:]...)
			return
		}
	}
	if len(c.pair) >= 2 {
		return
	}
	c.pair = append(c.pair, index)
	if len(c.pair) == 2 {
		a, b := c.pair[0], c.pair[1]
		c.Reset()
		if c.onCompare != nil {
			c.onCompare(a, b)
		}
	}
}

// Pair returns the compare pair in selection order.
func (c *Controller) Pair() []int {
	return append([]int(nil), c.pair...)
}

// Reset returns to Normal mode and clears all selection state.
func (c *Controller) Reset() {
	c.reset()
	c.mode = ModeNormal
}

func (c *Controller) reset() {
	c.selected = make(map[string]bool)
	c.pair = nil
}
