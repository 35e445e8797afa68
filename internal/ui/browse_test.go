package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-console/internal/history"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

func seedBrowser(t *testing.T, n int) *browser {
	t.Helper()
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := st.SaveReport(context.Background(), session.HistoryRecord{
			InvestigationID: fmt.Sprintf("inv-%d", i),
			TargetName:      fmt.Sprintf("Target %d", i),
			OverallScore:    float64(i),
			RiskLevel:       string(session.RiskLevelForScore(float64(i))),
			CompletedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	b := newBrowser(themeDark, st, nil, func(string, ...interface{}) {})
	require.NoError(t, b.refresh(context.Background()))
	return b
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBrowserRefreshPopulatesTable(t *testing.T) {
	b := seedBrowser(t, 3)
	assert.Len(t, b.records, 3)
	// Header row plus one row per record.
	assert.Equal(t, 4, b.table.GetRowCount())
}

func TestBrowserMultiSelectDeleteTargets(t *testing.T) {
	b := seedBrowser(t, 3)

	assert.Nil(t, b.handleKey(key('m')))
	assert.Equal(t, history.ModeMultiSelect, b.ctl.Mode())

	b.table.Select(1, 0)
	assert.Nil(t, b.handleKey(key(' ')))
	b.table.Select(3, 0)
	assert.Nil(t, b.handleKey(key(' ')))

	assert.Len(t, b.deleteTargets(), 2)

	n, err := b.deleteRecords(context.Background(), b.deleteTargets())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, b.records, 1)
	// Selection and mode drop with the deleted rows.
	assert.Equal(t, history.ModeNormal, b.ctl.Mode())
}

func TestBrowserDeleteTargetsCursorFallback(t *testing.T) {
	b := seedBrowser(t, 2)
	b.table.Select(1, 0)
	assert.Len(t, b.deleteTargets(), 1)
}

func TestBrowserCompareNeedsTwo(t *testing.T) {
	b := seedBrowser(t, 1)
	assert.Nil(t, b.handleKey(key('c')))
	assert.Equal(t, history.ModeNormal, b.ctl.Mode())
}

func TestBrowserComparePairSwapsPane(t *testing.T) {
	b := seedBrowser(t, 3)

	assert.Nil(t, b.handleKey(key('c')))
	assert.Equal(t, history.ModeCompare, b.ctl.Mode())

	b.table.Select(1, 0)
	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	b.table.Select(2, 0)
	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))

	// Pair emission resets the controller and fills both panes, each
	// headed by its verdict banner.
	assert.Equal(t, history.ModeNormal, b.ctl.Mode())
	assert.Contains(t, b.cmpLeft.GetText(true), "LOW")
	assert.Contains(t, b.cmpLeft.GetText(true), "/10")
	assert.NotEmpty(t, b.cmpRight.GetText(true))
}

func TestBrowserEscapeResets(t *testing.T) {
	b := seedBrowser(t, 3)
	assert.Nil(t, b.handleKey(key('m')))
	b.table.Select(1, 0)
	assert.Nil(t, b.handleKey(key(' ')))
	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, history.ModeNormal, b.ctl.Mode())
	assert.Empty(t, b.ctl.SelectedIDs())
}

func TestBrowserSpaceOutsideMultiSelectPassesThrough(t *testing.T) {
	b := seedBrowser(t, 2)
	ev := key(' ')
	assert.Equal(t, ev, b.handleKey(ev))
}

func TestBrowserReplayOnEnter(t *testing.T) {
	var replayed *session.HistoryRecord
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	_, err = st.SaveReport(context.Background(), session.HistoryRecord{
		InvestigationID: "inv-0", TargetName: "Acme Holdings",
	})
	require.NoError(t, err)

	b := newBrowser(themeDark, st, func(rec session.HistoryRecord) {
		replayed = &rec
	}, func(string, ...interface{}) {})
	require.NoError(t, b.refresh(context.Background()))

	b.table.Select(1, 0)
	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	require.NotNil(t, replayed)
	assert.Equal(t, "Acme Holdings", replayed.TargetName)
}
