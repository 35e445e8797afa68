// Package graphview computes deterministic 2-D layouts for the corporate
// relationship graph: one primary entity ringed by its subsidiaries and
// related entities, star topology only. The fixed-angle placement is a
// reproducible tie-break; node counts are always small, and visual
// regression tests need identical positions for identical inputs.
package graphview

import (
	"fmt"
	"math"
)

// Role tags a node's place in the relationship graph.
type Role string

const (
	RolePrimary    Role = "primary"
	RoleSubsidiary Role = "subsidiary"
	RoleRelated    Role = "related"
)

// Entity is a raw input entity; either field may be empty.
type Entity struct {
	Name         string
	Jurisdiction string
}

// Input is the structured result the layout is computed from.
type Input struct {
	Primary      Entity
	Subsidiaries []Entity
	Related      []Entity
}

// Node is a positioned, role-tagged graph node.
type Node struct {
	ID           string
	Label        string
	Role         Role
	Jurisdiction string
	X, Y         float64
}

// Edge always connects the primary to a child; there are no
// child-to-child edges in this model.
type Edge struct {
	From, To string
}

// Layout is the computed node and edge set within a bounding area.
type Layout struct {
	Width  float64
	Height float64
	Nodes  []Node
	Edges  []Edge
}

const (
	minHeight     = 360.0
	heightPerNode = 46.0
	radiusFrac    = 0.38 // of min(width, height); clears label text
	labelBudget   = 18
	jurisBudget   = 12
)

// Build computes the layout for the given input and viewport width.
// Returns nil when there is nothing to show at all: an unnamed primary
// with no children. A primary-only result yields a single-node layout;
// callers render a "no relationships found" placeholder for it (see
// Empty) instead of a one-node diagram.
func Build(in Input, width float64) *Layout {
	children := len(in.Subsidiaries) + len(in.Related)
	if in.Primary.Name == "" && children == 0 {
		return nil
	}

	height := minHeight
	if grown := heightPerNode * float64(children+1); grown > height {
		height = grown
	}

	l := &Layout{Width: width, Height: height}

	cx, cy := width/2, height/2
	l.Nodes = append(l.Nodes, Node{
		ID:           "primary",
		Label:        Truncate(in.Primary.Name, labelBudget),
		Role:         RolePrimary,
		Jurisdiction: Truncate(in.Primary.Jurisdiction, jurisBudget),
		X:            cx,
		Y:            cy,
	})

	if children == 0 {
		return l
	}

	radius := radiusFrac * math.Min(width, height)
	i := 0
	place := func(e Entity, role Role, id, placeholder string) {
		// First child at 12 o'clock, proceeding clockwise.
		angle := 2*math.Pi*float64(i)/float64(children) - math.Pi/2
		label := e.Name
		if label == "" {
			label = placeholder
		}
		l.Nodes = append(l.Nodes, Node{
			ID:           id,
			Label:        Truncate(label, labelBudget),
			Role:         role,
			Jurisdiction: Truncate(e.Jurisdiction, jurisBudget),
			X:            cx + radius*math.Cos(angle),
			Y:            cy + radius*math.Sin(angle),
		})
		l.Edges = append(l.Edges, Edge{From: "primary", To: id})
		i++
	}

	for n, e := range in.Subsidiaries {
		place(e, RoleSubsidiary, fmt.Sprintf("sub-%d", n+1), fmt.Sprintf("Sub %d", n+1))
	}
	for n, e := range in.Related {
		place(e, RoleRelated, fmt.Sprintf("rel-%d", n+1), fmt.Sprintf("Related %d", n+1))
	}
	return l
}

// Empty reports a layout with no relationships to draw.
func (l *Layout) Empty() bool {
	return len(l.Edges) == 0
}

// Truncate cuts s to at most budget runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget-1]) + "…"
}
