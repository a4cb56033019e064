package placement

import (
	"fmt"

	"github.com/matzehuels/dropkit/pkg/geom"
)

// Placement is the computed box, direction and scroll flag for an overlay.
// It is an immutable value; Recompute returns a new one.
type Placement struct {
	Down       bool    `json:"down"`
	ViewHeight float64 `json:"view_height"`
	Scrolls    bool    `json:"scrolls"`
	Width      float64 `json:"width"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`

	// Carried so a placement can be recomputed without the content.
	RequestedHeight float64 `json:"requested_height"`
	ItemHeight      float64 `json:"item_height"`

	// ScrollAllowance is the scrollbar width folded into Width, or 0.
	ScrollAllowance float64 `json:"scroll_allowance,omitempty"`
}

// Box returns the overlay rectangle.
func (p Placement) Box() geom.Box {
	return geom.Box{Left: p.Left, Top: p.Top, Width: p.Width, Height: p.ViewHeight}
}

// Direction returns "down" or "up".
func (p Placement) Direction() string {
	if p.Down {
		return "down"
	}
	return "up"
}

// VisibleRows is the number of rows that fit, at least partially, in ViewHeight.
func (p Placement) VisibleRows(count int) int {
	if p.ItemHeight <= 0 || count <= 0 {
		return 0
	}
	n := int(p.ViewHeight / p.ItemHeight)
	if float64(n)*p.ItemHeight < p.ViewHeight {
		n++
	}
	if n > count {
		n = count
	}
	return n
}

func (p Placement) String() string {
	return fmt.Sprintf("%s %gx%g at (%g,%g) scrolls=%t",
		p.Direction(), p.Width, p.ViewHeight, p.Left, p.Top, p.Scrolls)
}

// ScrollProbe reports the width a platform reserves for a vertical scrollbar.
type ScrollProbe interface {
	ReservedScrollWidth() float64
}

// FixedProbe is a ScrollProbe returning a constant width.
type FixedProbe float64

// ReservedScrollWidth implements ScrollProbe.
func (f FixedProbe) ReservedScrollWidth() float64 { return float64(f) }

// ProbeFunc adapts a function to ScrollProbe.
type ProbeFunc func() float64

// ReservedScrollWidth implements ScrollProbe.
func (f ProbeFunc) ReservedScrollWidth() float64 { return f() }
