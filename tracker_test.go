package glossify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeTarget counts passes and reverts; Block() makes ProcessPass stall
// until Release() so tests can observe the Processing state.
type fakeTarget struct {
	mu      sync.Mutex
	passes  int
	reverts int
	passErr error

	block   chan struct{}
	entered chan struct{}
}

func (f *fakeTarget) ProcessPass(ctx context.Context) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passes++
	return f.passErr
}

func (f *fakeTarget) RevertAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverts++
	return nil
}

func (f *fakeTarget) passCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.passes
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestTracker_DebounceCoalesces(t *testing.T) {
	target := &fakeTarget{}
	tr := NewTracker(target, 30*time.Millisecond)
	defer tr.Stop()

	for i := 0; i < 5; i++ {
		tr.Notify()
	}
	if got := tr.State(); got != TrackerScheduled {
		t.Fatalf("state = %v, want Scheduled", got)
	}

	waitFor(t, func() bool { return target.passCount() == 1 })
	// Give a stray second fire a chance to show up.
	time.Sleep(60 * time.Millisecond)
	if got := target.passCount(); got != 1 {
		t.Errorf("passes = %d, want 1 (signals coalesced)", got)
	}
	if got := tr.State(); got != TrackerIdle {
		t.Errorf("state = %v, want Idle after pass", got)
	}
}

func TestTracker_DropsSignalsWhileProcessing(t *testing.T) {
	target := &fakeTarget{
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	tr := NewTracker(target, 10*time.Millisecond)
	defer tr.Stop()

	tr.Notify()
	<-target.entered

	if got := tr.State(); got != TrackerProcessing {
		t.Fatalf("state = %v, want Processing", got)
	}
	tr.Notify() // dropped
	close(target.block)

	waitFor(t, func() bool { return tr.State() == TrackerIdle })
	time.Sleep(30 * time.Millisecond)
	if got := target.passCount(); got != 1 {
		t.Errorf("passes = %d, want 1 (mid-pass signal dropped)", got)
	}
}

func TestTracker_ProcessNow(t *testing.T) {
	target := &fakeTarget{}
	tr := NewTracker(target, time.Hour)
	defer tr.Stop()

	tr.Notify() // pending far in the future
	if err := tr.ProcessNow(context.Background()); err != nil {
		t.Fatalf("ProcessNow: %v", err)
	}
	if got := target.passCount(); got != 1 {
		t.Errorf("passes = %d, want 1", got)
	}
	if got := tr.State(); got != TrackerIdle {
		t.Errorf("state = %v, want Idle (pending timer cancelled)", got)
	}
}

func TestTracker_ProcessNowBusy(t *testing.T) {
	target := &fakeTarget{
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	tr := NewTracker(target, 10*time.Millisecond)
	defer tr.Stop()

	tr.Notify()
	<-target.entered

	if err := tr.ProcessNow(context.Background()); !errors.Is(err, ErrPassInProgress) {
		t.Errorf("err = %v, want ErrPassInProgress", err)
	}
	close(target.block)
	waitFor(t, func() bool { return tr.State() == TrackerIdle })
}

func TestTracker_ReschedulesAfterPass(t *testing.T) {
	target := &fakeTarget{}
	tr := NewTracker(target, 10*time.Millisecond)
	defer tr.Stop()

	tr.Notify()
	waitFor(t, func() bool { return target.passCount() == 1 })

	tr.Notify()
	waitFor(t, func() bool { return target.passCount() == 2 })
}

func TestTracker_Revert(t *testing.T) {
	target := &fakeTarget{}
	tr := NewTracker(target, 10*time.Millisecond)

	if err := tr.Revert(); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if err := tr.Revert(); err != nil {
		t.Fatalf("second Revert: %v", err)
	}
	if target.reverts != 2 {
		t.Errorf("reverts = %d, want 2", target.reverts)
	}
}

func TestTracker_Stop(t *testing.T) {
	target := &fakeTarget{}
	tr := NewTracker(target, 20*time.Millisecond)

	tr.Notify()
	tr.Stop()
	if got := tr.State(); got != TrackerIdle {
		t.Fatalf("state = %v, want Idle after Stop", got)
	}
	time.Sleep(50 * time.Millisecond)
	if got := target.passCount(); got != 0 {
		t.Errorf("passes = %d, want 0 (pending pass cancelled)", got)
	}
}

func TestTracker_StatsRecordError(t *testing.T) {
	target := &fakeTarget{passErr: errors.New("boom")}
	tr := NewTracker(target, 10*time.Millisecond)

	if err := tr.ProcessNow(context.Background()); err == nil {
		t.Fatal("expected pass error")
	}
	s := tr.Stats()
	if s.Passes != 1 {
		t.Errorf("Passes = %d, want 1", s.Passes)
	}
	if s.LastError != "boom" {
		t.Errorf("LastError = %q", s.LastError)
	}
}

func TestTracker_DefaultDebounce(t *testing.T) {
	tr := NewTracker(&fakeTarget{}, 0)
	if tr.debounce != 150*time.Millisecond {
		t.Errorf("debounce = %v, want 150ms default", tr.debounce)
	}
}
