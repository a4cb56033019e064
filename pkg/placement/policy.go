package placement

import (
	"strings"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
)

// Policy names accepted by PolicyByName.
const (
	PolicySpace = "space"
	PolicyRows  = "rows"
)

// DefaultThresholdRows is the row count used by the "rows" policy when none is given.
const DefaultThresholdRows = 4

// FlipPolicy decides, for content that overflows the bottom of the viewport,
// whether the overlay opens above the anchor instead of being constrained below.
type FlipPolicy interface {
	Name() string
	ShouldFlip(anchor geom.Anchor, viewport geom.Viewport, content geom.Content, margin float64) bool
}

// SpaceComparison flips when there is less room below the anchor than above it.
type SpaceComparison struct{}

// Name implements FlipPolicy.
func (SpaceComparison) Name() string { return PolicySpace }

// ShouldFlip implements FlipPolicy.
func (SpaceComparison) ShouldFlip(anchor geom.Anchor, viewport geom.Viewport, _ geom.Content, _ float64) bool {
	return anchor.Bottom() > viewport.Height-anchor.Top
}

// RowThreshold flips only when there is less room above than below and the
// room below holds fewer than Rows rows. Overlays with a few rows of room
// below stay below and scroll.
type RowThreshold struct {
	Rows int
}

// Name implements FlipPolicy.
func (RowThreshold) Name() string { return PolicyRows }

// ShouldFlip implements FlipPolicy.
func (r RowThreshold) ShouldFlip(anchor geom.Anchor, viewport geom.Viewport, content geom.Content, margin float64) bool {
	rows := r.Rows
	if rows <= 0 {
		rows = DefaultThresholdRows
	}
	allowed := viewport.Height - margin - anchor.Top
	return SpaceComparison{}.ShouldFlip(anchor, viewport, content, margin) &&
		allowed < content.ItemHeight*float64(rows)
}

// PolicyByName returns the policy registered under name. rows is only used
// by the "rows" policy.
func PolicyByName(name string, rows int) (FlipPolicy, error) {
	switch strings.ToLower(name) {
	case "", PolicySpace:
		return SpaceComparison{}, nil
	case PolicyRows:
		return RowThreshold{Rows: rows}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidPolicy, "unknown flip policy %q (valid: %s, %s)", name, PolicySpace, PolicyRows)
}
