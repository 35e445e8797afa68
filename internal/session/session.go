package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/meridianhq/meridian-console/internal/event"
	"github.com/meridianhq/meridian-console/internal/stream"
)

// Opener starts the live stream and hands back its body. Kept as a
// function so the session never learns about HTTP.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Listener observes state snapshots after every applied event. Invoked on
// the session's consuming goroutine; implementations must not block.
type Listener func(snap Investigation)

// Session owns one Investigation and its explicit lifecycle: Start,
// LoadHistorical, Teardown. Starting or loading tears down any previous
// consumer, and every event is tagged with the session id at the time of
// its arrival, so stale stream events and stale animator ticks are
// discarded rather than mutating the new session.
type Session struct {
	mu       sync.Mutex
	id       string
	inv      *Investigation
	cancel   context.CancelFunc
	logger   *log.Logger
	onChange Listener
}

// New constructs an idle session. onChange may be nil.
func New(logger *log.Logger, onChange Listener) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{logger: logger, onChange: onChange}
}

// ID returns the identifier of the current session generation. Readers
// holding a snapshot can compare against it to detect staleness.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Start begins a live investigation, replacing any previous session
// wholesale. The stream is consumed on a single goroutine; events apply
// in arrival order.
func (s *Session) Start(ctx context.Context, target string, open Opener) {
	s.mu.Lock()
	s.teardownLocked()
	id := uuid.NewString()
	s.id = id
	s.inv = NewInvestigation(target)
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	snap := s.inv.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	go s.consume(runCtx, id, open)
}

func (s *Session) consume(ctx context.Context, id string, open Opener) {
	body, err := open(ctx)
	if err != nil {
		s.fail(id, fmt.Sprintf("start stream: %v", err))
		return
	}
	defer body.Close()

	err = stream.Pump(ctx, body, s.logger, func(ev event.Event) {
		s.apply(id, ev)
	})
	if err != nil {
		s.fail(id, fmt.Sprintf("stream read: %v", err))
		return
	}
	// Transport EOF without an explicit stream_end frame terminates the
	// same way: still-running means the synthesis never arrived.
	s.apply(id, event.StreamEnd{})
}

// apply folds one event into the current investigation, dropping it when
// the session has moved on since the event was read.
func (s *Session) apply(id string, ev event.Event) {
	s.mu.Lock()
	if id != s.id || s.inv == nil {
		s.mu.Unlock()
		s.logger.Printf("discarding stale %s event", ev.EventType())
		return
	}
	s.inv.Apply(ev, s.logger)
	snap := s.inv.snapshot()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) fail(id, reason string) {
	s.mu.Lock()
	if id != s.id || s.inv == nil {
		s.mu.Unlock()
		return
	}
	s.inv.Fail(reason)
	snap := s.inv.snapshot()
	s.mu.Unlock()

	s.logger.Printf("session failed: %s", reason)
	s.notify(snap)
}

// LoadHistorical replaces the session with a terminal reconstruction of a
// stored investigation. No stream is opened and Running is never entered.
func (s *Session) LoadHistorical(rec HistoryRecord) {
	s.mu.Lock()
	s.teardownLocked()
	s.id = uuid.NewString()
	s.inv = ReplayHistorical(rec)
	snap := s.inv.snapshot()
	s.mu.Unlock()

	s.notify(snap)
}

// Teardown cancels any in-flight stream read and invalidates the session
// id so late arrivals are discarded.
func (s *Session) Teardown() {
	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()
}

func (s *Session) teardownLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.id = ""
}

// Snapshot returns a deep copy of the current investigation state, or a
// fresh NotStarted value when no session is active.
func (s *Session) Snapshot() Investigation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inv == nil {
		return *NewInvestigation("")
	}
	return s.inv.snapshot()
}

func (s *Session) notify(snap Investigation) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
