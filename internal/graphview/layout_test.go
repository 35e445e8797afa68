package graphview

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childEntities(n int) []Entity {
	out := make([]Entity, n)
	for i := range out {
		out[i] = Entity{Name: fmt.Sprintf("Child %d", i+1)}
	}
	return out
}

func TestBuildSuppressedWhenNothingToShow(t *testing.T) {
	assert.Nil(t, Build(Input{}, 800))
}

func TestBuildPrimaryOnlyIsEmptyLayout(t *testing.T) {
	l := Build(Input{Primary: Entity{Name: "Acme Holdings"}}, 800)
	require.NotNil(t, l)
	assert.True(t, l.Empty())
	require.Len(t, l.Nodes, 1)
	assert.Equal(t, RolePrimary, l.Nodes[0].Role)
}

func TestBuildStarTopology(t *testing.T) {
	in := Input{
		Primary:      Entity{Name: "Acme Holdings", Jurisdiction: "Delaware"},
		Subsidiaries: []Entity{{Name: "Acme BVI", Jurisdiction: "BVI"}, {Name: "Acme Trading"}},
		Related:      []Entity{{Name: "Summit Partners"}},
	}

	l := Build(in, 800)
	require.NotNil(t, l)
	require.Len(t, l.Nodes, 4)
	require.Len(t, l.Edges, 3)
	for _, e := range l.Edges {
		assert.Equal(t, "primary", e.From, "every edge fans out from the primary")
	}
	assert.Equal(t, RoleSubsidiary, l.Nodes[1].Role)
	assert.Equal(t, RoleRelated, l.Nodes[3].Role)
}

func TestBuildAngularSpacing(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8} {
		t.Run(fmt.Sprintf("%d children", n), func(t *testing.T) {
			l := Build(Input{Primary: Entity{Name: "P"}, Subsidiaries: childEntities(n)}, 800)
			require.Len(t, l.Nodes, n+1)

			cx, cy := l.Nodes[0].X, l.Nodes[0].Y
			radius := radiusFrac * math.Min(l.Width, l.Height)
			for i, node := range l.Nodes[1:] {
				want := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
				assert.InDelta(t, cx+radius*math.Cos(want), node.X, 1e-9)
				assert.InDelta(t, cy+radius*math.Sin(want), node.Y, 1e-9)
			}

			// First child sits at 12 o'clock: directly above center.
			assert.InDelta(t, cx, l.Nodes[1].X, 1e-9)
			assert.InDelta(t, cy-radius, l.Nodes[1].Y, 1e-9)
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	in := Input{Primary: Entity{Name: "P"}, Subsidiaries: childEntities(5)}
	a := Build(in, 800)
	b := Build(in, 800)
	assert.Equal(t, a, b)
}

func TestBuildHeightGrowsWithNodeCount(t *testing.T) {
	small := Build(Input{Primary: Entity{Name: "P"}, Subsidiaries: childEntities(2)}, 800)
	big := Build(Input{Primary: Entity{Name: "P"}, Subsidiaries: childEntities(30)}, 800)

	assert.Equal(t, minHeight, small.Height)
	assert.Greater(t, big.Height, small.Height)
	// Primary stays centered regardless.
	assert.InDelta(t, big.Height/2, big.Nodes[0].Y, 1e-9)
}

func TestBuildPlaceholderLabels(t *testing.T) {
	l := Build(Input{
		Primary:      Entity{Name: "P"},
		Subsidiaries: []Entity{{}, {Jurisdiction: "Panama"}},
		Related:      []Entity{{}},
	}, 800)

	assert.Equal(t, "Sub 1", l.Nodes[1].Label)
	assert.Equal(t, "Sub 2", l.Nodes[2].Label)
	assert.Equal(t, "Related 1", l.Nodes[3].Label)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 18))
	assert.Equal(t, "exactly-eighteen18", Truncate("exactly-eighteen18", 18))
	long := Truncate("Global Infrastructure Partners III", 18)
	assert.Equal(t, 18, len([]rune(long)))
	assert.Equal(t, "…", string([]rune(long)[17]))
}

func TestInputFromFindingStructured(t *testing.T) {
	findings := `Structure analysis: {"primary_entity":{"name":"Acme Global Ltd","jurisdiction":"Cayman Islands"},` +
		`"subsidiary_sample":[{"name":"Acme BVI","jurisdiction":"BVI"},{"name":"Acme GmbH","jurisdiction":"Germany"}],` +
		`"related_entities":[{"name":"Summit Partners"}]} end of data.`

	in := InputFromFinding("Acme", findings)

	assert.Equal(t, "Acme Global Ltd", in.Primary.Name)
	assert.Equal(t, "Cayman Islands", in.Primary.Jurisdiction)
	require.Len(t, in.Subsidiaries, 2)
	assert.Equal(t, "BVI", in.Subsidiaries[0].Jurisdiction)
	require.Len(t, in.Related, 1)
}

func TestInputFromFindingPlainText(t *testing.T) {
	in := InputFromFinding("Acme", "No corporate registration records found.")
	assert.Equal(t, Entity{Name: "Acme"}, in.Primary)
	assert.Empty(t, in.Subsidiaries)
	assert.Empty(t, in.Related)

	// Embedded braces that are not the structure document degrade the same way.
	in = InputFromFinding("Acme", "weird {not json} text")
	assert.Equal(t, "Acme", in.Primary.Name)
}
