// Package autosave persists in-progress editor code in the background.
// Saves are debounced and single-flight: rapid edits collapse into one
// request, and a new save never starts while one is running.
package autosave

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is the idle window after the last edit before saving.
const DefaultDelay = 2 * time.Second

// DefaultSnippet is the editor's starting content. It is never autosaved
// so an untouched editor does not overwrite a real draft on the server.
const DefaultSnippet = ` function sum() {
  return 1 + 1
}`

// Status is the transient save state surfaced to the UI.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "save failed"
	default:
		return ""
	}
}

// SaveFunc performs the actual save.
type SaveFunc func(ctx context.Context, code string) error

// Saver debounces code changes into background saves.
type Saver struct {
	save     SaveFunc
	delay    time.Duration
	onStatus func(Status)

	mu       sync.Mutex
	timer    *time.Timer
	pending  string
	dirty    bool
	inflight bool
	stopped  bool
}

// Option configures a Saver.
type Option func(*Saver)

// WithDelay overrides the debounce window (tests).
func WithDelay(d time.Duration) Option {
	return func(s *Saver) {
		s.delay = d
	}
}

// WithStatusFunc registers a callback for save state transitions. It is
// called from the saver's goroutine; keep it cheap.
func WithStatusFunc(fn func(Status)) Option {
	return func(s *Saver) {
		s.onStatus = fn
	}
}

// New returns a Saver that calls save after the debounce window elapses.
func New(save SaveFunc, opts ...Option) *Saver {
	s := &Saver{
		save:     save,
		delay:    DefaultDelay,
		onStatus: func(Status) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CodeChanged records an edit and (re)arms the debounce timer. Empty and
// untouched default content is skipped.
func (s *Saver) CodeChanged(code string) {
	if strings.TrimSpace(code) == "" || code == DefaultSnippet {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.pending = code
	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Flush saves any pending edit immediately, bypassing the debounce window.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	code := s.pending
	s.dirty = false
	s.mu.Unlock()

	return s.runSave(ctx, code)
}

// Stop cancels any pending save. Edits after Stop are ignored.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.dirty = false
}

func (s *Saver) fire() {
	s.mu.Lock()
	if s.stopped || !s.dirty {
		s.mu.Unlock()
		return
	}
	if s.inflight {
		// A save is running; the timer re-arms and this edit rides the
		// next window.
		s.timer = time.AfterFunc(s.delay, s.fire)
		s.mu.Unlock()
		return
	}
	s.inflight = true
	code := s.pending
	s.dirty = false
	s.mu.Unlock()

	_ = s.runSave(context.Background(), code)

	s.mu.Lock()
	s.inflight = false
	s.mu.Unlock()
}

func (s *Saver) runSave(ctx context.Context, code string) error {
	s.onStatus(StatusSaving)
	if err := s.save(ctx, code); err != nil {
		// Failures never interrupt editing; the status line is the only
		// place they show up.
		s.onStatus(StatusFailed)
		return err
	}
	s.onStatus(StatusSaved)
	return nil
}
