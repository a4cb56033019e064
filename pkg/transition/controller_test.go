package transition

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/dropkit/pkg/errors"
)

const eps = 1e-9

type harness struct {
	clock  *ManualClock
	sched  *ManualScheduler
	ctrl   *Controller
	frames []Frame
	opens  int
	closes int
}

func newHarness(t *testing.T, rows int) *harness {
	t.Helper()
	h := &harness{
		clock: NewManualClock(time.Unix(1000, 0)),
		sched: NewManualScheduler(),
	}
	ctrl, err := New(Config{
		Duration:     200 * time.Millisecond,
		FadeFraction: 0.25,
		Rows:         rows,
		Clock:        h.clock,
		Scheduler:    h.sched,
		Render:       func(f Frame) { h.frames = append(h.frames, f) },
		OnOpen:       func() { h.opens++ },
		OnClose:      func() { h.closes++ },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.ctrl = ctrl
	return h
}

func (h *harness) last() Frame { return h.frames[len(h.frames)-1] }

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestNewRequiresCallbacks(t *testing.T) {
	base := Config{
		Scheduler: NewManualScheduler(),
		Render:    func(Frame) {},
		OnOpen:    func() {},
		OnClose:   func() {},
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"missing OnOpen", func(c *Config) { c.OnOpen = nil }, errors.ErrCodeConfig},
		{"missing OnClose", func(c *Config) { c.OnClose = nil }, errors.ErrCodeConfig},
		{"missing scheduler", func(c *Config) { c.Scheduler = nil }, errors.ErrCodeConfig},
		{"missing render", func(c *Config) { c.Render = nil }, errors.ErrCodeConfig},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }, errors.ErrCodeInvalidConfig},
		{"fade fraction of one", func(c *Config) { c.FadeFraction = 1 }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			ctrl, err := New(cfg)
			if ctrl != nil {
				t.Error("New() returned a controller for an invalid config")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	ctrl, err := New(base)
	if err != nil {
		t.Fatalf("New(valid) error = %v", err)
	}
	if ctrl.Duration() != DefaultDuration {
		t.Errorf("Duration() = %v, want default %v", ctrl.Duration(), DefaultDuration)
	}
}

func TestForwardRun(t *testing.T) {
	h := newHarness(t, 3)
	h.ctrl.Start()

	if h.sched.Pending() != 1 {
		t.Fatalf("Start() queued %d ticks, want 1", h.sched.Pending())
	}

	h.sched.Flush()
	if got := h.last().Progress; got != 0 {
		t.Errorf("first frame progress = %v, want 0", got)
	}

	h.sched.Advance(h.clock, 100*time.Millisecond)
	f := h.last()
	if !near(f.Progress, 0.5) || !near(f.Box, 0.5) || !near(f.Shadow, 0.5) {
		t.Errorf("midpoint frame = %+v", f)
	}
	if f.PreviewFade != 0 {
		t.Errorf("PreviewFade at 0.5 = %v, want 0", f.PreviewFade)
	}

	h.sched.Advance(h.clock, 100*time.Millisecond)
	f = h.last()
	if !f.Final || f.Progress != 1 {
		t.Errorf("terminal frame = %+v", f)
	}
	for i, r := range f.Rows {
		if r != 1 {
			t.Errorf("row %d = %v at terminal frame, want 1", i, r)
		}
	}
	if h.opens != 1 || h.closes != 0 {
		t.Errorf("opens=%d closes=%d, want 1/0", h.opens, h.closes)
	}
	if h.sched.Pending() != 0 {
		t.Errorf("%d ticks still queued after completion", h.sched.Pending())
	}
	if !h.ctrl.Done() {
		t.Error("Done() = false after completion")
	}
}

func TestSingleFlightFrames(t *testing.T) {
	h := newHarness(t, 2)
	h.ctrl.Start()
	h.ctrl.Reverse()
	h.ctrl.Start()

	if got := h.sched.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want a single outstanding tick", got)
	}
}

func TestFramesMonotonic(t *testing.T) {
	h := newHarness(t, 4)
	h.ctrl.Start()
	h.sched.RunUntilIdle(h.clock, 16*time.Millisecond, 100)

	for i := 1; i < len(h.frames); i++ {
		if h.frames[i].Progress < h.frames[i-1].Progress {
			t.Fatalf("frame %d progress %v went backward from %v", i, h.frames[i].Progress, h.frames[i-1].Progress)
		}
	}
	if h.opens != 1 {
		t.Errorf("opens = %d, want 1", h.opens)
	}
}

func TestReversePreservesProgress(t *testing.T) {
	for _, p := range []float64{0.1, 0.4, 0.75} {
		h := newHarness(t, 3)
		h.ctrl.Start()
		h.sched.Flush()

		elapsed := time.Duration(p * float64(200*time.Millisecond))
		h.sched.Advance(h.clock, elapsed)
		before := h.ctrl.Progress()

		h.ctrl.Reverse()
		if got := h.ctrl.Progress(); !near(got, before) {
			t.Errorf("p=%v: progress after Reverse = %v, want %v", p, got, before)
		}
		if got := h.ctrl.Fraction(); !near(got, 1-p) {
			t.Errorf("p=%v: elapsed fraction after Reverse = %v, want %v", p, got, 1-p)
		}

		h.sched.Flush()
		if got := h.last(); !got.Reversed || !near(got.Progress, before) {
			t.Errorf("p=%v: first reversed frame = %+v", p, got)
		}
	}
}

func TestReverseMidOpenCompletesClosed(t *testing.T) {
	h := newHarness(t, 3)
	h.ctrl.Start()
	h.sched.Advance(h.clock, 80*time.Millisecond)

	h.ctrl.Reverse()
	h.sched.RunUntilIdle(h.clock, 20*time.Millisecond, 100)

	if h.opens != 0 {
		t.Errorf("OnOpen ran %d times for a reversed transition", h.opens)
	}
	if h.closes != 1 {
		t.Errorf("OnClose ran %d times, want 1", h.closes)
	}
	f := h.last()
	if !f.Final || f.Progress != 0 || f.Box != 0 {
		t.Errorf("terminal reversed frame = %+v", f)
	}
	for i, r := range f.Rows {
		if r != 0 {
			t.Errorf("row %d = %v after closing, want 0", i, r)
		}
	}
}

func TestReverseAfterOpen(t *testing.T) {
	h := newHarness(t, 2)
	h.ctrl.Start()
	h.sched.RunUntilIdle(h.clock, 50*time.Millisecond, 100)

	h.ctrl.Reverse()
	if got := h.ctrl.Progress(); got != 1 {
		t.Errorf("progress right after reversing an open controller = %v, want 1", got)
	}
	h.sched.RunUntilIdle(h.clock, 50*time.Millisecond, 100)
	if h.opens != 1 || h.closes != 1 {
		t.Errorf("opens=%d closes=%d, want 1/1", h.opens, h.closes)
	}

	h.ctrl.Reverse()
	h.sched.RunUntilIdle(h.clock, 50*time.Millisecond, 100)
	if h.closes != 1 {
		t.Errorf("OnClose ran %d times, want exactly once", h.closes)
	}
}

func TestCancel(t *testing.T) {
	t.Run("forward settles at one", func(t *testing.T) {
		h := newHarness(t, 3)
		h.ctrl.Start()
		h.sched.Advance(h.clock, 60*time.Millisecond)
		n := len(h.frames)

		h.ctrl.Cancel()
		if len(h.frames) != n+1 {
			t.Fatalf("Cancel() emitted %d frames, want 1", len(h.frames)-n)
		}
		if f := h.last(); f.Progress != 1 || !f.Final {
			t.Errorf("cancel frame = %+v", f)
		}
		if got := h.ctrl.Progress(); got != 1 {
			t.Errorf("Progress() after Cancel = %v, want 1", got)
		}

		h.sched.RunUntilIdle(h.clock, 16*time.Millisecond, 100)
		if len(h.frames) != n+1 {
			t.Errorf("%d frames emitted after Cancel", len(h.frames)-n-1)
		}
		if h.opens != 0 {
			t.Errorf("OnOpen ran after Cancel")
		}
	})

	t.Run("reversed settles at zero", func(t *testing.T) {
		h := newHarness(t, 3)
		h.ctrl.Start()
		h.sched.Advance(h.clock, 60*time.Millisecond)
		h.ctrl.Reverse()
		h.ctrl.Cancel()
		if got := h.ctrl.Progress(); got != 0 {
			t.Errorf("Progress() after reversed Cancel = %v, want 0", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		h := newHarness(t, 1)
		h.ctrl.Start()
		h.ctrl.Cancel()
		h.ctrl.Cancel()
		if len(h.frames) != 1 {
			t.Errorf("two Cancel calls emitted %d frames, want 1", len(h.frames))
		}
	})

	t.Run("reverse after cancel starts from open", func(t *testing.T) {
		h := newHarness(t, 2)
		h.ctrl.Start()
		h.sched.Advance(h.clock, 40*time.Millisecond)
		h.ctrl.Cancel()

		h.ctrl.Reverse()
		if got := h.ctrl.Progress(); got != 1 {
			t.Errorf("Progress() = %v, want 1", got)
		}
		h.sched.RunUntilIdle(h.clock, 25*time.Millisecond, 100)
		if h.closes != 1 {
			t.Errorf("closes = %d, want 1", h.closes)
		}
	})
}

func TestSetRows(t *testing.T) {
	h := newHarness(t, 2)
	h.ctrl.SetRows(5)
	h.ctrl.Start()
	h.sched.Flush()
	if got := len(h.last().Rows); got != 5 {
		t.Errorf("len(Rows) = %d, want 5", got)
	}
	h.ctrl.SetRows(-3)
	h.sched.Advance(h.clock, time.Millisecond)
	if got := len(h.last().Rows); got != 0 {
		t.Errorf("len(Rows) = %d, want 0", got)
	}
}
