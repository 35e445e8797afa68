package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/meridianhq/meridian-console/internal/history"
	"github.com/meridianhq/meridian-console/internal/report"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

const browsePageSize = 100

// browser is the stored-investigation screen: a table of past reports
// with a rendered detail pane, batch selection for delete and export,
// and two-way compare.
type browser struct {
	root     *tview.Flex
	table    *tview.Table
	detail   *tview.TextView
	compare  *tview.Flex
	cmpLeft  *tview.TextView
	cmpRight *tview.TextView

	theme func() Theme
	store *store.Store

	records []session.HistoryRecord
	ctl     *history.Controller

	// onReplay loads a stored record into the live screen.
	onReplay func(session.HistoryRecord)
	onStatus func(format string, args ...interface{})
}

func newBrowser(theme func() Theme, st *store.Store, onReplay func(session.HistoryRecord), onStatus func(string, ...interface{})) *browser {
	b := &browser{theme: theme, store: st, onReplay: onReplay, onStatus: onStatus}
	b.ctl = history.NewController(b.showCompare)

	b.table = tview.NewTable()
	b.table.SetBorder(true).SetTitle(" Past Investigations ").SetTitleAlign(tview.AlignLeft)
	b.table.SetSelectable(true, false)
	b.table.SetFixed(1, 0)
	b.table.SetSelectionChangedFunc(func(row, col int) {
		b.renderDetail(row - 1)
	})

	b.detail = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	b.detail.SetBorder(true).SetTitle(" Report ").SetTitleAlign(tview.AlignLeft)

	b.cmpLeft = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	b.cmpLeft.SetBorder(true)
	b.cmpRight = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	b.cmpRight.SetBorder(true)
	b.compare = tview.NewFlex().
		AddItem(b.cmpLeft, 0, 1, false).
		AddItem(b.cmpRight, 0, 1, false)

	b.root = tview.NewFlex().
		AddItem(b.table, 0, 2, true).
		AddItem(b.detail, 0, 3, false)
	return b
}

// refresh reloads records from the store and rebuilds the table. Any
// in-flight selection or compare state is dropped with the old rows.
func (b *browser) refresh(ctx context.Context) error {
	recs, err := b.store.ListReports(ctx, browsePageSize)
	if err != nil {
		return err
	}
	b.records = recs
	b.ctl.Reset()
	b.exitCompareLayout()
	b.rebuildTable()
	b.renderDetail(0)
	return nil
}

func (b *browser) rebuildTable() {
	theme := b.theme()
	b.table.Clear()

	headers := []string{" ", "Target", "Score", "Level", "Completed"}
	for col, h := range headers {
		b.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(theme.TableHeader).
			SetBackgroundColor(theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	for i, rec := range b.records {
		mark := " "
		if b.ctl.Mode() == history.ModeMultiSelect && b.ctl.Selected(rec.InvestigationID) {
			mark = "✓"
		} else if b.ctl.Mode() == history.ModeCompare {
			for _, p := range b.ctl.Pair() {
				if p == i {
					mark = "◈"
				}
			}
		}
		row := i + 1
		b.table.SetCell(row, 0, tview.NewTableCell(mark).SetTextColor(theme.Accent))
		b.table.SetCell(row, 1, tview.NewTableCell(rec.TargetName).SetTextColor(theme.TableRow).SetExpansion(1))
		b.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%.1f", rec.OverallScore)).
			SetTextColor(theme.riskColor(rec.OverallScore)).SetAlign(tview.AlignRight))
		b.table.SetCell(row, 3, tview.NewTableCell(rec.RiskLevel).SetTextColor(theme.riskLevelColor(rec.RiskLevel)))
		b.table.SetCell(row, 4, tview.NewTableCell(completedLabel(rec)).SetTextColor(theme.TableRowMuted))
	}
}

func completedLabel(rec session.HistoryRecord) string {
	if rec.CompletedAt.IsZero() {
		return "-"
	}
	return rec.CompletedAt.Local().Format("2006-01-02 15:04")
}

func (b *browser) current() (session.HistoryRecord, int, bool) {
	row, _ := b.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(b.records) {
		return session.HistoryRecord{}, -1, false
	}
	return b.records[idx], idx, true
}

func (b *browser) renderDetail(idx int) {
	if idx < 0 || idx >= len(b.records) {
		b.detail.SetText(fmt.Sprintf("[%s]no stored investigations[-]", b.theme().TagMuted))
		return
	}
	b.detail.SetText(tview.Escape(report.Render(b.records[idx])))
	b.detail.ScrollToBeginning()
}

// handleKey processes browser-screen keys. Returns nil when the key was
// consumed.
func (b *browser) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch {
	case ev.Key() == tcell.KeyEnter:
		if b.ctl.Mode() == history.ModeCompare {
			if _, idx, ok := b.current(); ok {
				b.ctl.ToggleCompare(idx)
				b.rebuildTable()
			}
			return nil
		}
		if rec, _, ok := b.current(); ok && b.onReplay != nil {
			b.onReplay(rec)
		}
		return nil
	case ev.Rune() == ' ':
		if b.ctl.Mode() != history.ModeMultiSelect {
			return ev
		}
		if rec, _, ok := b.current(); ok {
			b.ctl.ToggleSelect(rec.InvestigationID)
			b.rebuildTable()
			b.onStatus("%d selected", len(b.ctl.SelectedIDs()))
		}
		return nil
	case ev.Rune() == 'm':
		b.ctl.EnterMultiSelect()
		b.exitCompareLayout()
		b.rebuildTable()
		b.onStatus("multi-select: space toggles, d deletes, Esc cancels")
		return nil
	case ev.Rune() == 'c':
		if err := b.ctl.EnterCompare(len(b.records)); err != nil {
			b.onStatus("compare needs at least two stored investigations")
			return nil
		}
		b.exitCompareLayout()
		b.rebuildTable()
		b.onStatus("compare: Enter picks two investigations")
		return nil
	case ev.Key() == tcell.KeyEscape:
		b.ctl.Reset()
		b.exitCompareLayout()
		b.rebuildTable()
		return nil
	}
	return ev
}

// deleteTargets returns the record ids a delete should act on: the
// multi-select set when active, otherwise the cursor row.
func (b *browser) deleteTargets() []string {
	if b.ctl.Mode() == history.ModeMultiSelect {
		if ids := b.ctl.SelectedIDs(); len(ids) > 0 {
			return ids
		}
	}
	if rec, _, ok := b.current(); ok {
		return []string{rec.InvestigationID}
	}
	return nil
}

func (b *browser) deleteRecords(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := b.store.DeleteReport(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	b.ctl.ConsumeSelection()
	return deleted, b.refresh(ctx)
}

// showCompare swaps the detail pane for side-by-side reports. Invoked by
// the controller the moment a pair is complete.
// compareBanner is the at-a-glance verdict line above each compare pane.
func compareBanner(theme Theme, rec session.HistoryRecord) string {
	return fmt.Sprintf("[%s::b]%s[-::-]  [%s]%.1f/10[-]\n\n",
		theme.riskLevelTag(rec.RiskLevel), rec.RiskLevel,
		theme.TagMuted, rec.OverallScore)
}

func (b *browser) showCompare(ai, bi int) {
	if ai < 0 || bi < 0 || ai >= len(b.records) || bi >= len(b.records) {
		return
	}
	theme := b.theme()
	left, right := b.records[ai], b.records[bi]
	b.cmpLeft.SetTitle(fmt.Sprintf(" %s ", left.TargetName))
	b.cmpLeft.SetText(compareBanner(theme, left) + tview.Escape(report.Render(left)))
	b.cmpLeft.ScrollToBeginning()
	b.cmpRight.SetTitle(fmt.Sprintf(" %s ", right.TargetName))
	b.cmpRight.SetText(compareBanner(theme, right) + tview.Escape(report.Render(right)))
	b.cmpRight.ScrollToBeginning()

	b.root.RemoveItem(b.detail)
	b.root.RemoveItem(b.compare)
	b.root.AddItem(b.compare, 0, 3, false)
	b.onStatus("comparing %s vs %s", left.TargetName, right.TargetName)
}

func (b *browser) exitCompareLayout() {
	b.root.RemoveItem(b.compare)
	b.root.RemoveItem(b.detail)
	b.root.AddItem(b.detail, 0, 3, false)
}

// exportCurrent writes the rendered report of the cursor row to a file
// in the working directory.
func (b *browser) exportCurrent() (string, error) {
	rec, _, ok := b.current()
	if !ok {
		return "", fmt.Errorf("no investigation selected")
	}
	name := report.Filename(rec, time.Now())
	if err := report.WriteFile(name, rec); err != nil {
		return "", err
	}
	return name, nil
}
