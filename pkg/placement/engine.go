package placement

import (
	"math"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
)

// DefaultMargin is the gap kept between an overlay and the viewport edge.
const DefaultMargin = 10

// minResizeRows is the floor, in rows, for a recomputed view height.
const minResizeRows = 2

// Engine computes placements. The zero value uses no margin, no scrollbar
// allowance and the SpaceComparison policy.
type Engine struct {
	Margin float64
	Probe  ScrollProbe
	Policy FlipPolicy
}

// NewEngine creates an engine. A nil probe reserves no scrollbar width and a
// nil policy means SpaceComparison.
func NewEngine(margin float64, probe ScrollProbe, policy FlipPolicy) *Engine {
	return &Engine{Margin: margin, Probe: probe, Policy: policy}
}

// ComputeInitial places an overlay that is about to open.
//
// The content must have at least one row; geometry and content are validated
// and an INVALID_* error is returned for malformed input.
func (e *Engine) ComputeInitial(anchor geom.Anchor, viewport geom.Viewport, content geom.Content) (Placement, error) {
	if err := validate(anchor, viewport, content); err != nil {
		return Placement{}, err
	}
	if content.Empty() {
		return Placement{}, errors.New(errors.ErrCodeInvalidContent, "cannot place an overlay with no rows")
	}

	requested := content.RequestedHeight()
	p := Placement{
		Down:            true,
		ViewHeight:      requested,
		RequestedHeight: requested,
		ItemHeight:      content.ItemHeight,
	}

	if anchor.Top+requested > viewport.Height-e.Margin {
		if e.policy().ShouldFlip(anchor, viewport, content, e.Margin) {
			p.Down = false
			if above := anchor.Bottom() - e.Margin; requested > above {
				p.ViewHeight = above
			}
		} else {
			p.ViewHeight = viewport.Height - anchor.Top - e.Margin
		}
	}

	// Degenerate viewports (anchor scrolled past an edge) still get one row.
	if floor := math.Min(content.ItemHeight, requested); p.ViewHeight < floor {
		p.ViewHeight = floor
	}
	p.Scrolls = p.ViewHeight < requested

	p.Width = math.Max(content.NaturalWidth, anchor.Width)
	if p.Scrolls && e.Probe != nil {
		p.ScrollAllowance = e.Probe.ReservedScrollWidth()
		p.Width += p.ScrollAllowance
	}

	p.Left, p.Top = position(anchor, viewport, p)
	return p, nil
}

// Recompute adapts prior to the current anchor and viewport after a resize.
// The direction of prior is kept, the view height follows the space on that
// side and never drops below two rows (or the whole content, if shorter).
// The width never shrinks; a placement that starts scrolling gains the
// scrollbar allowance it did not need before.
func (e *Engine) Recompute(anchor geom.Anchor, viewport geom.Viewport, prior Placement) Placement {
	p := prior

	var space float64
	if p.Down {
		space = viewport.Height - anchor.Top - e.Margin
	} else {
		space = anchor.Bottom() - e.Margin
	}
	p.ViewHeight = math.Min(space, p.RequestedHeight)
	p.ViewHeight = math.Max(p.ViewHeight, math.Min(minResizeRows*p.ItemHeight, p.RequestedHeight))
	p.Scrolls = p.ViewHeight < p.RequestedHeight
	if p.Scrolls && p.ScrollAllowance == 0 && e.Probe != nil {
		p.ScrollAllowance = e.Probe.ReservedScrollWidth()
		p.Width += p.ScrollAllowance
	}

	p.Left, p.Top = position(anchor, viewport, p)
	return p
}

func (e *Engine) policy() FlipPolicy {
	if e.Policy == nil {
		return SpaceComparison{}
	}
	return e.Policy
}

// position derives the overlay origin. A box that would cross the right edge
// of the viewport is shifted left by the scrollbar allowance rather than
// growing past the edge.
func position(anchor geom.Anchor, viewport geom.Viewport, p Placement) (left, top float64) {
	left = anchor.Left
	if p.ScrollAllowance > 0 && left+p.Width > viewport.Width {
		left -= p.ScrollAllowance
	}
	if p.Down {
		return left, anchor.Top
	}
	return left, anchor.Bottom() - p.ViewHeight
}

func validate(anchor geom.Anchor, viewport geom.Viewport, content geom.Content) error {
	if err := anchor.Validate(); err != nil {
		return err
	}
	if err := viewport.Validate(); err != nil {
		return err
	}
	return content.Validate()
}
