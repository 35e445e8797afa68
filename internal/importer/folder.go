// Package importer ingests exported investigation reports from a drop
// directory into the local cache, one-shot or watching. Analysts move
// reports between machines as plain JSON files; anything that lands in
// the folder and parses gets cached and announced on the bus.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/meridianhq/meridian-console/internal/bus"
	"github.com/meridianhq/meridian-console/internal/session"
	"github.com/meridianhq/meridian-console/internal/store"
)

// importedSuffix marks files already ingested so a watch restart does
// not re-import them.
const importedSuffix = ".imported"

// Options controls the importer.
type Options struct {
	// Dir is the drop directory containing exported report JSON files.
	Dir string

	// Watch keeps the importer running after the initial scan,
	// ingesting files as they appear.
	Watch bool

	// Logger for operational logs. If nil, logs are discarded.
	Logger *log.Logger
}

// Importer reads report JSON files and saves them to the store.
type Importer struct {
	store  *store.Store
	bus    bus.Bus
	opts   Options
	logger *log.Logger

	imported int
	failed   int
}

// New constructs an importer.
func New(st *store.Store, b bus.Bus, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Importer{store: st, bus: b, opts: opts, logger: logger}
}

// Run performs the initial scan and, in watch mode, keeps ingesting
// until ctx is cancelled.
func (im *Importer) Run(ctx context.Context) error {
	if err := im.scanOnce(ctx); err != nil {
		return err
	}
	if !im.opts.Watch {
		im.logger.Printf("one-shot import done: imported=%d failed=%d", im.imported, im.failed)
		return nil
	}
	return im.watchLoop(ctx)
}

// Imported reports how many files have been successfully ingested.
func (im *Importer) Imported() int { return im.imported }

func (im *Importer) scanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(im.opts.Dir)
	if err != nil {
		return fmt.Errorf("read drop dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !matches(e.Name()) {
			continue
		}
		im.importFile(ctx, filepath.Join(im.opts.Dir, e.Name()))
	}
	return nil
}

func (im *Importer) watchLoop(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	if err := w.Add(im.opts.Dir); err != nil {
		return fmt.Errorf("watch add: %w", err)
	}
	im.logger.Printf("watching %s for report files", im.opts.Dir)

	for {
		select {
		case <-ctx.Done():
			im.logger.Printf("watch stopping: imported=%d failed=%d", im.imported, im.failed)
			return ctx.Err()
		case ev := <-w.Events:
			if !matches(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				im.importFile(ctx, ev.Name)
			}
		case werr := <-w.Errors:
			if werr != nil {
				im.logger.Printf("watch error: %v", werr)
			}
		}
	}
}

func matches(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, importedSuffix+".json")
}

// importFile ingests one report file. Malformed files are logged and
// skipped; nothing here is fatal to the scan or the watch.
func (im *Importer) importFile(ctx context.Context, path string) {
	rec, err := ReadReportFile(path)
	if err != nil {
		im.logger.Printf("skipping %s: %v", path, err)
		im.failed++
		return
	}

	id, err := im.store.SaveReport(ctx, rec)
	if err != nil {
		im.logger.Printf("save %s: %v", path, err)
		im.failed++
		return
	}
	im.imported++
	im.logger.Printf("imported %s as %s", filepath.Base(path), id)

	if im.bus != nil {
		_ = im.bus.PublishReport(ctx, bus.ReportMessage{
			InvestigationID: id,
			TargetName:      rec.TargetName,
			OverallScore:    rec.OverallScore,
			RiskLevel:       rec.RiskLevel,
			Recommendation:  string(session.RecommendationForScore(rec.OverallScore)),
			CompletedAt:     rec.CompletedAt.Unix(),
		})
	}

	// Rename out of the match set so watch restarts skip it. Best-effort:
	// a read-only drop dir just means re-imports, which upsert anyway.
	if err := os.Rename(path, path+importedSuffix); err != nil {
		im.logger.Printf("could not archive %s: %v", path, err)
	}
}

// ReadReportFile parses one exported report document.
func ReadReportFile(path string) (session.HistoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.HistoryRecord{}, err
	}

	var rec session.HistoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return session.HistoryRecord{}, fmt.Errorf("parse report: %w", err)
	}
	if rec.TargetName == "" {
		return session.HistoryRecord{}, errors.New("report missing target_name")
	}
	return rec, nil
}
