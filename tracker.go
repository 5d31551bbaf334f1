package glossify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TrackerState is the state of the change tracker's pass machine.
type TrackerState int

const (
	// TrackerIdle means no pass is pending or running.
	TrackerIdle TrackerState = iota
	// TrackerScheduled means a debounced pass is pending.
	TrackerScheduled
	// TrackerProcessing means a pass is running; signals are dropped.
	TrackerProcessing
)

// ErrPassInProgress is returned when a synchronous pass is requested
// while another pass is already running.
var ErrPassInProgress = errors.New("glossify: processing pass already in progress")

// Processable is the document shell a Tracker drives. Both methods must
// be safe to invoke repeatedly: a pass swaps runs atomically, and revert
// restores every replacement unit to its original word.
type Processable interface {
	ProcessPass(ctx context.Context) error
	RevertAll() error
}

// Tracker coalesces external mutation signals into debounced processing
// passes. Signals arriving while a pass runs are dropped, not queued; any
// content missed raises a new signal later, so convergence is eventual.
type Tracker struct {
	target   Processable
	debounce time.Duration

	mu           sync.Mutex
	state        TrackerState
	timer        *time.Timer
	passes       int
	lastErr      error
	lastDuration time.Duration
}

// NewTracker creates a Tracker over the target with the given debounce
// window. A non-positive debounce defaults to 150ms.
func NewTracker(target Processable, debounce time.Duration) *Tracker {
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	return &Tracker{target: target, debounce: debounce}
}

// Notify records an external mutation signal. Idle and Scheduled both
// move to Scheduled and the debounce timer restarts; a signal during
// Processing is ignored.
func (t *Tracker) Notify() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TrackerProcessing {
		return
	}
	t.state = TrackerScheduled
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, t.timerFired)
}

func (t *Tracker) timerFired() {
	t.mu.Lock()
	if t.state != TrackerScheduled {
		t.mu.Unlock()
		return
	}
	t.state = TrackerProcessing
	t.mu.Unlock()

	t.runPass(context.Background())
}

// ProcessNow runs a pass synchronously, bypassing the debounce. It
// returns ErrPassInProgress if a pass is already running.
func (t *Tracker) ProcessNow(ctx context.Context) error {
	t.mu.Lock()
	if t.state == TrackerProcessing {
		t.mu.Unlock()
		return ErrPassInProgress
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.state = TrackerProcessing
	t.mu.Unlock()

	return t.runPass(ctx)
}

// runPass must be entered with state already set to TrackerProcessing.
func (t *Tracker) runPass(ctx context.Context) error {
	start := time.Now()
	err := t.target.ProcessPass(ctx)

	t.mu.Lock()
	t.state = TrackerIdle
	t.passes++
	t.lastErr = err
	t.lastDuration = time.Since(start)
	t.mu.Unlock()
	return err
}

// Revert restores every replacement in the target. It is idempotent and
// safe alongside scheduling: reverted content that should be glossed
// again will be picked up by the next pass.
func (t *Tracker) Revert() error {
	return t.target.RevertAll()
}

// Stop cancels any pending debounced pass.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.state == TrackerScheduled {
		t.state = TrackerIdle
	}
}

// State returns the current machine state.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TrackerStats is a snapshot of pass bookkeeping.
type TrackerStats struct {
	Passes       int           `json:"passes"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
}

// Stats returns pass bookkeeping for the debug surface.
func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := TrackerStats{Passes: t.passes, LastDuration: t.lastDuration}
	if t.lastErr != nil {
		s.LastError = t.lastErr.Error()
	}
	return s
}
