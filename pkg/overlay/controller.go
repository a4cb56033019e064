package overlay

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/observability"
	"github.com/matzehuels/dropkit/pkg/placement"
	"github.com/matzehuels/dropkit/pkg/transition"
)

// Config wires a Controller. Geometry, Surface, Resize and Scheduler are
// required.
type Config struct {
	Engine    *placement.Engine
	Geometry  Geometry
	Surface   Surface
	Resize    ResizeSource
	Clock     transition.Clock
	Scheduler transition.Scheduler

	Duration     time.Duration
	FadeFraction float64

	Logger *log.Logger
}

// Controller drives one overlay through repeated open/close cycles.
type Controller struct {
	engine    *placement.Engine
	geometry  Geometry
	surface   Surface
	resize    ResizeSource
	clock     transition.Clock
	scheduler transition.Scheduler
	duration  time.Duration
	fade      float64
	logger    *log.Logger

	state       State
	content     geom.Content
	placement   placement.Placement
	trans       *transition.Controller
	unsubscribe func()
	cycleID     string
	cycleStart  time.Time

	onOpen  func()
	onClose func()
}

// New validates cfg and creates a closed controller.
func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Geometry == nil:
		return nil, errors.New(errors.ErrCodeConfig, "overlay requires a geometry source")
	case cfg.Surface == nil:
		return nil, errors.New(errors.ErrCodeConfig, "overlay requires a surface")
	case cfg.Resize == nil:
		return nil, errors.New(errors.ErrCodeConfig, "overlay requires a resize source")
	case cfg.Scheduler == nil:
		return nil, errors.New(errors.ErrCodeConfig, "overlay requires a scheduler")
	}
	if cfg.Engine == nil {
		cfg.Engine = placement.NewEngine(placement.DefaultMargin, nil, nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = transition.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Controller{
		engine:    cfg.Engine,
		geometry:  cfg.Geometry,
		surface:   cfg.Surface,
		resize:    cfg.Resize,
		clock:     cfg.Clock,
		scheduler: cfg.Scheduler,
		duration:  cfg.Duration,
		fade:      cfg.FadeFraction,
		logger:    cfg.Logger,
	}, nil
}

// OnOpen sets the notification run each time the overlay reaches Open.
func (c *Controller) OnOpen(fn func()) { c.onOpen = fn }

// OnClose sets the notification run each time the overlay reaches Closed.
// Owners use it to defer user-visible change events until hiding completes.
func (c *Controller) OnClose(fn func()) { c.onClose = fn }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the overlay is anything but Closed.
func (c *Controller) IsOpen() bool { return c.state != Closed }

// Placement returns the active placement, if a cycle is active.
func (c *Controller) Placement() (placement.Placement, bool) {
	if c.state == Closed {
		return placement.Placement{}, false
	}
	return c.placement, true
}

// CycleID identifies the active open/close cycle, or "" when closed.
func (c *Controller) CycleID() string { return c.cycleID }

// Progress returns the rendered transition progress: 0 when closed, 1 when open.
func (c *Controller) Progress() float64 {
	if c.trans == nil {
		return 0
	}
	return c.trans.Progress()
}

// Show opens the overlay for content. It does nothing unless the overlay is
// Closed and content has rows. A placement or wiring failure is returned and
// leaves the overlay Closed with nothing attached.
func (c *Controller) Show(content geom.Content) error {
	if c.state != Closed || content.Empty() {
		return nil
	}

	anchor := c.geometry.MeasureAnchor()
	p, err := c.engine.ComputeInitial(anchor, c.geometry.MeasureViewport(), content)
	if err != nil {
		return fmt.Errorf("compute placement: %w", err)
	}

	trans, err := transition.New(transition.Config{
		Duration:     c.duration,
		FadeFraction: c.fade,
		Rows:         p.VisibleRows(content.ItemCount),
		Clock:        c.clock,
		Scheduler:    c.scheduler,
		Render:       c.render,
		OnOpen:       c.opened,
		OnClose:      c.closed,
	})
	if err != nil {
		return fmt.Errorf("create transition: %w", err)
	}

	c.content = content
	c.placement = p
	c.trans = trans
	c.cycleID = uuid.NewString()
	c.cycleStart = c.clock.Now()

	c.surface.Attach()
	c.surface.ApplyBox(anchor.Box())
	c.unsubscribe = c.resize.Subscribe(c.OnResize)
	c.setState(Opening, "show")

	observability.Overlay().OnPlacement(c.cycleID, "initial", p.Down, p.Scrolls, p.ViewHeight)
	c.logger.Debug("overlay placed", "cycle", c.cycleID, "placement", p.String())

	trans.Start()
	return nil
}

// Hide closes the overlay. It does nothing unless the overlay is Open or
// Opening; an opening overlay reverses from wherever it got to.
func (c *Controller) Hide() {
	if c.state != Open && c.state != Opening {
		return
	}
	c.setState(Closing, "hide")
	c.cycleStart = c.clock.Now()
	c.trans.Reverse()
}

// OnResize re-lays the overlay out after a viewport change. An opening
// overlay is first forced to Open. Closing and Closed overlays are left alone.
func (c *Controller) OnResize() {
	if c.state == Opening {
		c.trans.Cancel()
		c.complete(false)
		c.setState(Open, "resize")
		c.notify(c.onOpen)
	}
	if c.state != Open {
		return
	}

	p := c.engine.Recompute(c.geometry.MeasureAnchor(), c.geometry.MeasureViewport(), c.placement)
	c.placement = p
	visible := p.VisibleRows(c.content.ItemCount)
	c.trans.SetRows(visible)

	c.surface.ApplyBox(p.Box())
	for i := 0; i < visible; i++ {
		c.surface.ApplyRowProgress(i, 1)
	}

	observability.Overlay().OnPlacement(c.cycleID, "resize", p.Down, p.Scrolls, p.ViewHeight)
	c.logger.Debug("overlay resized", "cycle", c.cycleID, "placement", p.String())
}

// render maps a transition frame onto the surface, interpolating from the
// anchor box to the placement box.
func (c *Controller) render(f transition.Frame) {
	closedBox := c.geometry.MeasureAnchor().Box()
	c.surface.ApplyBox(closedBox.Lerp(c.placement.Box(), f.Box))
	c.surface.ApplyShadow(f.Shadow)
	c.surface.ApplyPreviewFade(f.PreviewFade)
	for i, r := range f.Rows {
		c.surface.ApplyRowProgress(i, r)
	}
}

func (c *Controller) opened() {
	if c.state != Opening {
		return
	}
	c.complete(false)
	c.setState(Open, "transition done")
	c.notify(c.onOpen)
}

func (c *Controller) closed() {
	if c.state != Closing {
		return
	}
	c.complete(true)
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.surface.Detach()
	c.setState(Closed, "transition done")

	c.trans = nil
	c.placement = placement.Placement{}
	c.content = geom.Content{}
	c.cycleID = ""
	c.notify(c.onClose)
}

func (c *Controller) complete(reversed bool) {
	elapsed := c.clock.Now().Sub(c.cycleStart)
	observability.Overlay().OnTransitionComplete(c.cycleID, reversed, c.trans.Frames(), elapsed)
}

func (c *Controller) setState(to State, event string) {
	from := c.state
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("overlay: illegal transition %s -> %s on %s", from, to, event))
	}
	c.state = to
	observability.Overlay().OnStateChange(c.cycleID, from.String(), to.String())
	c.logger.Debug("overlay state", "cycle", c.cycleID, "from", from, "to", to, "event", event)
}

func (c *Controller) notify(fn func()) {
	if fn != nil {
		fn()
	}
}
