package transition

import (
	"time"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
)

const (
	// DefaultDuration is the length of a full open or close transition.
	DefaultDuration = 200 * time.Millisecond

	// DefaultFadeFraction is the share of the transition during which the
	// preview label fades and before rows start to appear.
	DefaultFadeFraction = 0.25
)

// Frame is one rendered step of a transition.
type Frame struct {
	// Progress is the rendered progress: 0 is closed, 1 is open.
	Progress float64

	// Box interpolates the overlay between the anchor box and the placement box.
	Box float64

	// Shadow scales the overlay's shadow intensity.
	Shadow float64

	// PreviewFade is the opacity of the trigger label.
	PreviewFade float64

	// Rows holds the reveal progress of each animated row.
	Rows []float64

	// Reversed is true while closing.
	Reversed bool

	// Final marks the terminal frame of a direction.
	Final bool
}

// Config wires a Controller.
type Config struct {
	Duration     time.Duration
	FadeFraction float64

	// Rows is the number of rows animated by the stagger; rows outside the
	// visible height are not animated. It can be changed with SetRows.
	Rows int

	Clock     Clock
	Scheduler Scheduler
	Render    func(Frame)

	// OnOpen runs once when a forward transition completes, OnClose once
	// when a reversed transition completes. Both are required.
	OnOpen  func()
	OnClose func()
}

// Controller is a time-driven progress driver for one open/close cycle.
// It is not safe for concurrent use; all methods and ticks must run on the
// scheduler's goroutine.
type Controller struct {
	duration time.Duration
	fade     float64
	rows     int

	clock  Clock
	sched  Scheduler
	render func(Frame)

	onOpen  func()
	onClose func()

	start        time.Time
	started      bool
	reversed     bool
	cancelled    bool
	framePending bool
	done         bool
	opened       bool
	closed       bool

	frames int
}

// New validates cfg and creates a controller. Missing completion callbacks,
// scheduler or render callback are configuration errors reported here rather
// than on the tick that would need them.
func New(cfg Config) (*Controller, error) {
	if cfg.OnOpen == nil || cfg.OnClose == nil {
		return nil, errors.New(errors.ErrCodeConfig, "transition requires both OnOpen and OnClose callbacks")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New(errors.ErrCodeConfig, "transition requires a scheduler")
	}
	if cfg.Render == nil {
		return nil, errors.New(errors.ErrCodeConfig, "transition requires a render callback")
	}
	if cfg.Duration < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "duration cannot be negative (got %s)", cfg.Duration)
	}
	if cfg.Duration == 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.FadeFraction == 0 {
		cfg.FadeFraction = DefaultFadeFraction
	}
	if err := errors.ValidateFraction("fade fraction", cfg.FadeFraction); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Rows < 0 {
		cfg.Rows = 0
	}

	return &Controller{
		duration: cfg.Duration,
		fade:     cfg.FadeFraction,
		rows:     cfg.Rows,
		clock:    cfg.Clock,
		sched:    cfg.Scheduler,
		render:   cfg.Render,
		onOpen:   cfg.OnOpen,
		onClose:  cfg.OnClose,
	}, nil
}

// Start begins a forward transition from progress 0.
func (c *Controller) Start() {
	c.start = c.clock.Now()
	c.started = true
	c.reversed = false
	c.cancelled = false
	c.done = false
	c.schedule()
}

// Reverse turns the transition around, keeping the rendered progress: a
// transition reversed at 40% rendered progress continues backward from 40%.
// Reversing an already reversed controller does nothing.
func (c *Controller) Reverse() {
	if c.started && c.reversed {
		return
	}
	now := c.clock.Now()
	elapsed := now.Sub(c.start)
	if !c.started || elapsed < 0 {
		elapsed = 0
	}
	if c.started && elapsed < c.duration {
		c.start = now.Add(-(c.duration - elapsed))
	} else if c.started {
		c.start = now
	} else {
		// Never started: closing from fully closed completes on the next tick.
		c.start = now.Add(-c.duration)
	}
	c.started = true
	c.reversed = true
	c.cancelled = false
	c.done = false
	c.schedule()
}

// Cancel settles the transition at the terminal value of its current
// direction, emitting that frame before it returns, and makes the controller
// inert. Completion callbacks are not run; the owner decides the resulting
// state. Cancel is idempotent.
func (c *Controller) Cancel() {
	if c.cancelled || c.done {
		return
	}
	c.cancelled = true
	c.started = true
	c.start = c.clock.Now().Add(-c.duration)
	c.emit(1)
}

// SetRows changes the number of rows animated by subsequent frames.
func (c *Controller) SetRows(n int) {
	if n < 0 {
		n = 0
	}
	c.rows = n
}

// Progress returns the rendered progress at the current clock reading.
func (c *Controller) Progress() float64 {
	if !c.started {
		return 0
	}
	return c.rendered(c.fraction())
}

// Fraction returns the elapsed share of the duration in the current
// direction, in [0, 1].
func (c *Controller) Fraction() float64 {
	if !c.started {
		return 0
	}
	return c.fraction()
}

// Reversed reports whether the controller is running backward.
func (c *Controller) Reversed() bool { return c.reversed }

// Done reports whether the current direction has completed or was cancelled.
func (c *Controller) Done() bool { return c.done || c.cancelled }

// Frames returns the number of frames rendered so far.
func (c *Controller) Frames() int { return c.frames }

// Duration returns the configured transition length.
func (c *Controller) Duration() time.Duration { return c.duration }

func (c *Controller) schedule() {
	if c.framePending {
		return
	}
	c.framePending = true
	c.sched.RequestTick(c.tick)
}

func (c *Controller) tick() {
	c.framePending = false
	if c.cancelled || c.done {
		return
	}

	pct := c.fraction()
	c.emit(pct)
	if pct < 1 {
		c.schedule()
		return
	}

	c.done = true
	if c.reversed {
		if !c.closed {
			c.closed = true
			c.onClose()
		}
		return
	}
	if !c.opened {
		c.opened = true
		c.onOpen()
	}
}

func (c *Controller) fraction() float64 {
	if c.cancelled || c.done {
		return 1
	}
	elapsed := c.clock.Now().Sub(c.start)
	return geom.Clamp01(float64(elapsed) / float64(c.duration))
}

func (c *Controller) rendered(pct float64) float64 {
	if c.reversed {
		return 1 - pct
	}
	return pct
}

func (c *Controller) emit(pct float64) {
	p := c.rendered(pct)
	c.frames++
	c.render(Frame{
		Progress:    p,
		Box:         p,
		Shadow:      p,
		PreviewFade: PreviewFade(p, c.fade),
		Rows:        Stagger(p, c.fade, c.rows),
		Reversed:    c.reversed,
		Final:       pct >= 1,
	})
}
