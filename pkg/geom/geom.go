package geom

import (
	"math"

	"github.com/matzehuels/dropkit/pkg/errors"
)

// Anchor is the trigger element the overlay is positioned relative to.
type Anchor struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns Top + Height.
func (a Anchor) Bottom() float64 { return a.Top + a.Height }

// Box returns the anchor's own rectangle, which is also the overlay's
// closed-state box.
func (a Anchor) Box() Box {
	return Box{Left: a.Left, Top: a.Top, Width: a.Width, Height: a.Height}
}

// Validate rejects non-finite coordinates and negative sizes.
func (a Anchor) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"anchor.left", a.Left}, {"anchor.top", a.Top}} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateNonNegative("anchor.width", a.Width); err != nil {
		return err
	}
	return errors.ValidateNonNegative("anchor.height", a.Height)
}

// Viewport is the size of the scrollable document area.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects non-finite or negative sizes.
func (v Viewport) Validate() error {
	if err := errors.ValidateNonNegative("viewport.width", v.Width); err != nil {
		return err
	}
	return errors.ValidateNonNegative("viewport.height", v.Height)
}

// Content describes the rows the overlay wants to show.
type Content struct {
	ItemHeight   float64 `json:"item_height"`
	ItemCount    int     `json:"item_count"`
	NaturalWidth float64 `json:"natural_width"`
}

// RequestedHeight is ItemHeight × ItemCount.
func (c Content) RequestedHeight() float64 {
	return c.ItemHeight * float64(c.ItemCount)
}

// Empty reports whether there is nothing to show.
func (c Content) Empty() bool { return c.ItemCount <= 0 }

// Validate checks that the content can be laid out. Zero rows is valid; it is
// the caller's job to treat it as a no-op.
func (c Content) Validate() error {
	if c.ItemCount < 0 {
		return errors.New(errors.ErrCodeInvalidContent, "item count cannot be negative (got %d)", c.ItemCount)
	}
	if err := errors.ValidatePositive("content.item_height", c.ItemHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidContent, err, "invalid content")
	}
	return errors.ValidateNonNegative("content.natural_width", c.NaturalWidth)
}

// Box is an axis-aligned rectangle in document coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns Left + Width.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns Top + Height.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Lerp interpolates every edge of the box from b (t=0) to to (t=1).
// t is clamped to [0, 1].
func (b Box) Lerp(to Box, t float64) Box {
	t = Clamp01(t)
	return Box{
		Left:   lerp(b.Left, to.Left, t),
		Top:    lerp(b.Top, to.Top, t),
		Width:  lerp(b.Width, to.Width, t),
		Height: lerp(b.Height, to.Height, t),
	}
}

// Round snaps the box to whole units, keeping the far edges stable so that
// adjacent boxes do not gain gaps from independent rounding.
func (b Box) Round() Box {
	left := math.Round(b.Left)
	top := math.Round(b.Top)
	return Box{
		Left:   left,
		Top:    top,
		Width:  math.Round(b.Right()) - left,
		Height: math.Round(b.Bottom()) - top,
	}
}

// Clamp01 clamps v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v > 0:
		return v
	}
	return 0
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
