package overlay

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/placement"
	"github.com/matzehuels/dropkit/pkg/transition"
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	defaultMaxFrames     = 1000
)

// Script describes one scripted open/close cycle run on a manual clock.
type Script struct {
	Engine   *placement.Engine
	Anchor   geom.Anchor
	Viewport geom.Viewport
	Content  geom.Content

	Duration      time.Duration
	FadeFraction  float64
	FrameInterval time.Duration
	MaxFrames     int

	// HideAt, when non-nil, requests Hide once the clock reaches it.
	HideAt *time.Duration
	// ResizeAt, when non-nil, swaps in ResizeTo and fires a resize.
	ResizeAt *time.Duration
	ResizeTo geom.Viewport

	Logger *log.Logger
}

// Sample is the surface state after one frame or event.
type Sample struct {
	At          time.Duration `json:"-"`
	AtMS        float64       `json:"at_ms"`
	Event       string        `json:"event"`
	State       string        `json:"state"`
	Progress    float64       `json:"progress"`
	Box         geom.Box      `json:"box"`
	Shadow      float64       `json:"shadow"`
	PreviewFade float64       `json:"preview_fade"`
	Rows        []float64     `json:"rows"`
}

// Trace is the outcome of Simulate.
type Trace struct {
	CycleID    string              `json:"cycle_id"`
	Initial    placement.Placement `json:"initial"`
	Final      placement.Placement `json:"final"`
	FinalState string              `json:"final_state"`
	Opens      int                 `json:"opens"`
	Closes     int                 `json:"closes"`
	Samples    []Sample            `json:"samples"`
}

// Simulate runs s against a Recorder surface, advancing a manual clock one
// frame interval at a time until the overlay is idle and no scripted event
// remains.
func Simulate(s Script) (Trace, error) {
	if s.FrameInterval <= 0 {
		s.FrameInterval = defaultFrameInterval
	}
	if s.MaxFrames <= 0 {
		s.MaxFrames = defaultMaxFrames
	}

	var (
		geo     = &StaticGeometry{Anchor: s.Anchor, Viewport: s.Viewport}
		surface = NewRecorder()
		resize  = NewSignal()
		clock   = transition.NewManualClock(time.Unix(0, 0))
		sched   = transition.NewManualScheduler()
		trace   Trace
	)
	ctrl, err := New(Config{
		Engine:       s.Engine,
		Geometry:     geo,
		Surface:      surface,
		Resize:       resize,
		Clock:        clock,
		Scheduler:    sched,
		Duration:     s.Duration,
		FadeFraction: s.FadeFraction,
		Logger:       s.Logger,
	})
	if err != nil {
		return Trace{}, err
	}
	ctrl.OnOpen(func() { trace.Opens++ })
	ctrl.OnClose(func() { trace.Closes++ })

	origin := clock.Now()
	sample := func(event string) {
		at := clock.Now().Sub(origin)
		trace.Samples = append(trace.Samples, Sample{
			At:          at,
			AtMS:        float64(at) / float64(time.Millisecond),
			Event:       event,
			State:       ctrl.State().String(),
			Progress:    ctrl.Progress(),
			Box:         surface.Box,
			Shadow:      surface.Shadow,
			PreviewFade: surface.PreviewFade,
			Rows:        slices.Clone(surface.Rows),
		})
	}

	if err := ctrl.Show(s.Content); err != nil {
		return Trace{}, err
	}
	if ctrl.State() == Closed {
		trace.FinalState = Closed.String()
		return trace, nil
	}
	trace.CycleID = ctrl.CycleID()
	trace.Initial, _ = ctrl.Placement()
	sample("show")

	hide, resizeAt := s.HideAt, s.ResizeAt
	for frames := 0; frames < s.MaxFrames; frames++ {
		elapsed := clock.Now().Sub(origin)
		if resizeAt != nil && elapsed >= *resizeAt {
			resizeAt = nil
			geo.Viewport = s.ResizeTo
			resize.Notify()
			sample("resize")
		}
		if hide != nil && elapsed >= *hide {
			hide = nil
			ctrl.Hide()
			sample("hide")
		}
		if p, ok := ctrl.Placement(); ok {
			trace.Final = p
		}
		if sched.Pending() == 0 {
			next, ok := nextEvent(elapsed, hide, resizeAt)
			if !ok {
				break
			}
			clock.Advance(next - elapsed)
			continue
		}
		if sched.Advance(clock, s.FrameInterval) > 0 {
			sample("frame")
		}
	}
	if sched.Pending() > 0 {
		return trace, errors.New(errors.ErrCodeInvalidInput, "simulation still running after %d frames", s.MaxFrames)
	}
	trace.FinalState = ctrl.State().String()
	return trace, nil
}

func nextEvent(now time.Duration, events ...*time.Duration) (time.Duration, bool) {
	var (
		next  time.Duration
		found bool
	)
	for _, e := range events {
		if e == nil {
			continue
		}
		at := max(*e, now)
		if !found || at < next {
			next, found = at, true
		}
	}
	return next, found
}
