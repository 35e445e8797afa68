// Package ui is the interactive terminal console: a live investigation
// screen fed by the event stream and a browser over stored reports.
package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"github.com/meridianhq/meridian-console/internal/animate"
	"github.com/meridianhq/meridian-console/internal/api"
	"github.com/meridianhq/meridian-console/internal/bus"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

const (
	pageLive   = "live"
	pageBrowse = "browse"
	pageModal  = "modal"
)

// App is the terminal console application.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	layout *tview.Flex
	title  *tview.TextView
	status *tview.TextView

	live   *liveView
	browse *browser

	client *api.Client
	store  *store.Store
	bus    bus.Bus
	sess   *session.Session
	runner *animate.Runner
	logger *log.Logger

	theme        Theme
	themeName    string
	hasTrueColor bool

	// savedID is the last investigation persisted from a live session,
	// so a completion snapshot is saved exactly once.
	savedID string

	// Latest snapshot pending render, see onSnapshot.
	latchMu   sync.Mutex
	latched   session.Investigation
	latchedID string
	liveGen   string

	// synced is set after the first backend history sync, event loop only.
	synced bool

	activePage string
	ctx        context.Context
	cancel     context.CancelFunc
}

// Options carries the app's collaborators.
type Options struct {
	Client *api.Client
	Store  *store.Store
	Bus    bus.Bus
	Logger *log.Logger
	Theme  string
}

// NewApp builds the console UI.
func NewApp(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	appCtx, cancel := context.WithCancel(ctx)

	a := &App{
		app:          tview.NewApplication(),
		client:       opts.Client,
		store:        opts.Store,
		bus:          opts.Bus,
		logger:       logger,
		hasTrueColor: detectTrueColor(),
		activePage:   pageLive,
		ctx:          appCtx,
		cancel:       cancel,
	}

	a.themeName, a.theme = resolveTheme(opts.Theme, a.hasTrueColor)

	themeFn := func() Theme { return a.theme }
	a.live = newLiveView(themeFn)
	a.browse = newBrowser(themeFn, a.store, a.replayRecord, a.setStatus)

	a.sess = session.New(logger, a.onSnapshot)
	a.runner = animate.NewRunner(animate.DefaultInterval, func() {
		a.app.QueueUpdateDraw(func() {
			a.live.tick(a.sess.ID())
		})
	})

	a.setupLayout()
	a.setupKeybindings()
	a.applyTheme()
	return a
}

// Run starts the event loop, optionally kicking off an investigation of
// target first. Blocks until quit.
func (a *App) Run(target string) error {
	go func() {
		<-a.ctx.Done()
		a.app.Stop()
	}()
	go a.loadAnalytics()

	if target != "" {
		a.startInvestigation(target)
	} else {
		a.showBrowse()
	}

	a.runner.Start()
	defer a.runner.Stop()

	err := a.app.Run()
	a.sess.Teardown()
	return err
}

// Stop shuts the UI down.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) setupLayout() {
	a.title = tview.NewTextView().SetDynamicColors(true)
	a.status = tview.NewTextView().SetDynamicColors(true)

	a.pages = tview.NewPages()
	a.pages.AddPage(pageLive, a.live.root, true, true)
	a.pages.AddPage(pageBrowse, a.browse.root, true, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.title, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.status, 1, 0, false)
	a.app.SetRoot(a.layout, true)

	a.setTitle(api.Counts{})
	a.setStatus("")
}

func (a *App) setTitle(counts api.Counts) {
	text := fmt.Sprintf("[%s::b] MERIDIAN [-::-][%s] due diligence console[-]",
		a.theme.TagAccent, a.theme.TagMuted)
	if counts.Investigations > 0 {
		text += fmt.Sprintf("  [%s]%d investigations · %d entities · %d news · %d sanctions[-]",
			a.theme.TagMuted, counts.Investigations, counts.Entities,
			counts.NewsArticles, counts.Sanctions)
	}
	a.title.SetText(text)
}

// loadAnalytics fetches the backend's index counters for the title bar.
// When the backend is unreachable the local cache's risk-level counts
// stand in; with neither available the header just stays bare.
func (a *App) loadAnalytics() {
	var counts api.Counts
	if a.client != nil {
		remote, err := a.client.Analytics(a.ctx)
		if err == nil {
			counts = remote
		} else {
			a.logger.Printf("analytics unavailable: %v", err)
		}
	}
	if counts.Investigations == 0 && a.store != nil {
		local, err := a.store.CountByRiskLevel(a.ctx)
		if err != nil {
			return
		}
		for _, n := range local {
			counts.Investigations += n
		}
	}
	if counts.Investigations == 0 {
		return
	}
	a.app.QueueUpdateDraw(func() {
		a.setTitle(counts)
	})
}

func (a *App) setupKeybindings() {
	a.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if a.modalActive() {
			return ev
		}

		// Browser-local keys first so space/Enter reach the table logic.
		if a.activePage == pageBrowse {
			if handled := a.browse.handleKey(ev); handled == nil {
				return nil
			}
			switch ev.Rune() {
			case 'd':
				a.confirmDelete()
				return nil
			case 'x':
				a.exportCurrent()
				return nil
			case 'r':
				a.refreshBrowse()
				return nil
			}
		}

		switch ev.Rune() {
		case 'q':
			a.Stop()
			return nil
		case 'b':
			a.showBrowse()
			return nil
		case 'l':
			a.showLive()
			return nil
		case 'n':
			a.promptNewInvestigation()
			return nil
		case 't':
			a.cycleTheme()
			return nil
		case '?':
			a.showHelp()
			return nil
		}
		if ev.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		return ev
	})
}

// onSnapshot receives session state on whichever goroutine applied the
// event. Widget work must run on the event loop, and QueueUpdateDraw
// deadlocks when called from the loop itself, so the snapshot is latched
// and the render queued from a fresh goroutine. Renders always read the
// newest latch, so reordered queue entries cannot show stale state.
func (a *App) onSnapshot(snap session.Investigation) {
	id := a.sess.ID()
	a.latchMu.Lock()
	// Persist only live completions. Replayed history arrives Complete
	// too but is already stored.
	persist := snap.Phase == session.PhaseComplete && snap.Final != nil &&
		snap.ID != "" && snap.ID != a.savedID && id == a.liveGen
	if persist {
		a.savedID = snap.ID
	}
	a.latched = snap
	a.latchedID = id
	a.latchMu.Unlock()
	if persist {
		go a.persistResult(snap)
	}

	go a.app.QueueUpdateDraw(func() {
		a.latchMu.Lock()
		cur, curID := a.latched, a.latchedID
		a.latchMu.Unlock()
		a.live.update(curID, cur)
	})
}

func (a *App) persistResult(snap session.Investigation) {
	rec := RecordFromInvestigation(snap)
	if a.store != nil {
		if _, err := a.store.SaveReport(a.ctx, rec); err != nil {
			a.logger.Printf("save completed investigation: %v", err)
		}
	}
	if a.bus != nil {
		err := a.bus.PublishReport(a.ctx, bus.ReportMessage{
			InvestigationID: rec.InvestigationID,
			TargetName:      rec.TargetName,
			OverallScore:    rec.OverallScore,
			RiskLevel:       rec.RiskLevel,
			Recommendation:  string(snap.Final.Recommendation),
			CompletedAt:     rec.CompletedAt.Unix(),
		})
		if err != nil {
			a.logger.Printf("publish completed investigation: %v", err)
		}
	}
}

// startInvestigation kicks off a live stream for target and shows the
// live screen.
func (a *App) startInvestigation(target string) {
	id := uuid.NewString()
	a.sess.Start(a.ctx, target, func(ctx context.Context) (io.ReadCloser, error) {
		return a.client.StartStream(ctx, target, id)
	})
	a.latchMu.Lock()
	a.liveGen = a.sess.ID()
	a.latchMu.Unlock()
	a.showLive()
	a.setStatus("investigating %s", target)
}

// replayRecord loads a stored investigation into the live screen. The
// replay lands terminal, so no progress animation runs.
func (a *App) replayRecord(rec session.HistoryRecord) {
	a.sess.LoadHistorical(rec)
	a.showLive()
	a.setStatus("viewing stored investigation of %s", rec.TargetName)
}

func (a *App) showLive() {
	a.activePage = pageLive
	a.pages.SwitchToPage(pageLive)
}

func (a *App) showBrowse() {
	a.activePage = pageBrowse
	a.pages.SwitchToPage(pageBrowse)
	if !a.synced {
		a.synced = true
		go a.syncFromBackend()
	}
	a.refreshBrowse()
	a.app.SetFocus(a.browse.table)
}

// syncFromBackend pulls the backend's recent investigations into the
// local cache so the browser shows work done from other consoles.
// Best-effort: an unreachable backend leaves the cache as is.
func (a *App) syncFromBackend() {
	if a.client == nil || a.store == nil {
		return
	}
	remote, err := a.client.ListInvestigations(a.ctx, browsePageSize)
	if err != nil {
		a.logger.Printf("backend sync skipped: %v", err)
		return
	}
	saved := 0
	for _, rec := range remote {
		if rec.InvestigationID == "" {
			continue
		}
		if _, err := a.store.SaveReport(a.ctx, rec); err != nil {
			a.logger.Printf("sync %s: %v", rec.InvestigationID, err)
			continue
		}
		saved++
	}
	if saved == 0 {
		return
	}
	a.app.QueueUpdateDraw(func() {
		if a.activePage == pageBrowse {
			a.refreshBrowse()
		}
	})
}

func (a *App) refreshBrowse() {
	if err := a.browse.refresh(a.ctx); err != nil {
		a.setStatus("[%s]load history: %v[-]", a.theme.TagError, err)
		return
	}
	a.setStatus("%d stored investigations", len(a.browse.records))
}

func (a *App) exportCurrent() {
	name, err := a.browse.exportCurrent()
	if err != nil {
		a.setStatus("[%s]export: %v[-]", a.theme.TagError, err)
		return
	}
	a.setStatus("exported %s", name)
}

func (a *App) confirmDelete() {
	ids := a.browse.deleteTargets()
	if len(ids) == 0 {
		return
	}
	prompt := fmt.Sprintf("Delete %d stored investigation(s)?", len(ids))
	modal := tview.NewModal().
		SetText(prompt).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(pageModal)
			a.app.SetFocus(a.browse.table)
			if label != "Delete" {
				return
			}
			n, err := a.browse.deleteRecords(a.ctx, ids)
			if err != nil {
				a.setStatus("[%s]delete: %v[-]", a.theme.TagError, err)
				return
			}
			a.setStatus("deleted %d investigation(s)", n)
		})
	a.pages.AddPage(pageModal, modal, true, true)
}

func (a *App) promptNewInvestigation() {
	input := tview.NewInputField().SetLabel("Target company: ").SetFieldWidth(40)
	input.SetDoneFunc(func(key tcell.Key) {
		target := input.GetText()
		a.pages.RemovePage(pageModal)
		if key != tcell.KeyEnter || target == "" {
			return
		}
		a.startInvestigation(target)
	})
	form := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(input, 60, 0, true).
			AddItem(nil, 0, 1, false), 3, 0, true).
		AddItem(nil, 0, 1, false)
	a.pages.AddPage(pageModal, form, true, true)
	a.app.SetFocus(input)
}

func (a *App) showHelp() {
	text := `n  new investigation
b  browse stored investigations
l  live view
m  multi-select (browser)
c  compare two investigations (browser)
d  delete (browser)
x  export report (browser)
r  refresh (browser)
t  cycle theme
q  quit`
	modal := tview.NewModal().SetText(text).AddButtons([]string{"Close"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(pageModal)
		})
	a.pages.AddPage(pageModal, modal, true, true)
}

func (a *App) modalActive() bool {
	return a.pages.HasPage(pageModal)
}

func (a *App) cycleTheme() {
	for i, name := range themeOrder {
		if name == a.themeName {
			next := themeOrder[(i+1)%len(themeOrder)]
			a.setTheme(next)
			return
		}
	}
	a.setTheme(themeOrder[0])
}

func (a *App) setTheme(name string) {
	theme, ok := themeByName(name)
	if !ok {
		return
	}
	a.themeName = name
	a.theme = theme
	a.applyTheme()
	a.browse.rebuildTable()
	a.live.render()
	a.setStatus("theme: %s", name)
}

func (a *App) applyTheme() {
	t := a.theme
	for _, p := range []*tview.Box{
		a.live.agents.Box, a.live.thoughts.Box, a.live.graph.Box, a.live.final.Box,
		a.browse.table.Box, a.browse.detail.Box, a.browse.cmpLeft.Box, a.browse.cmpRight.Box,
	} {
		p.SetBackgroundColor(t.Surface)
		p.SetBorderColor(t.Border)
		p.SetTitleColor(t.Header)
	}
	a.title.SetBackgroundColor(t.Bg)
	a.status.SetBackgroundColor(t.Bg)
	a.browse.table.SetSelectedStyle(tcell.StyleDefault.
		Background(t.SelectionBg).Foreground(t.SelectionFg))
}

// setStatus shows a transient message next to the fixed key hints. Safe
// from any goroutine except it must not be called mid-draw.
func (a *App) setStatus(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	hints := fmt.Sprintf("[%s]n[-][%s]:new  [-][%s]b[-][%s]:browse  [-][%s]?[-][%s]:help  [-][%s]q[-][%s]:quit[-]",
		a.theme.TagAccent, a.theme.TagMuted,
		a.theme.TagAccent, a.theme.TagMuted,
		a.theme.TagAccent, a.theme.TagMuted,
		a.theme.TagAccent, a.theme.TagMuted)
	if msg != "" {
		hints += fmt.Sprintf("  [%s]| %s[-]", a.theme.TagTextPrimary, msg)
	}
	a.status.SetText(hints)
}

// RecordFromInvestigation converts a terminal live snapshot into the
// stored-report shape.
func RecordFromInvestigation(snap session.Investigation) session.HistoryRecord {
	rec := session.HistoryRecord{
		InvestigationID: snap.ID,
		TargetName:      snap.TargetName,
		CompletedAt:     time.Now().UTC(),
	}
	if snap.Final != nil {
		rec.OverallScore = snap.Final.OverallScore
		rec.RiskLevel = string(snap.Final.RiskLevel)
		rec.Summary = snap.Final.Summary
		rec.RedFlags = snap.Final.TopRedFlags
		rec.RecommendedActions = snap.Final.RecommendedActions
		rec.AgentFindings = snap.Final.AgentResults
	}
	return rec
}
