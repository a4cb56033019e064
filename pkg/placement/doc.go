// Package placement computes where a dropdown overlay appears relative to its
// anchor and how tall it may grow before it has to scroll.
//
// # Initial placement
//
// [Engine.ComputeInitial] is a pure function of the anchor, the viewport and
// the requested content. When the rows would overflow the bottom of the
// viewport the engine either flips the overlay above the anchor or keeps it
// below and constrains its height; which of the two happens is decided by a
// [FlipPolicy]. A constrained overlay scrolls, and a scrolling overlay is
// widened by the platform's reserved scrollbar width as reported by a
// [ScrollProbe].
//
// # Resize
//
// [Engine.Recompute] adapts an existing placement to new geometry. The
// direction chosen at open time is held fixed so an open menu never jumps to
// the other side of its anchor under the pointer; only height and position
// follow the resize. The visible area never shrinks below two rows.
//
// # Example
//
//	engine := placement.NewEngine(10, placement.FixedProbe(15), placement.SpaceComparison{})
//	p, err := engine.ComputeInitial(anchor, viewport, content)
//	if err != nil {
//	    return err
//	}
//	// later, on resize
//	p = engine.Recompute(measureAnchor(), measureViewport(), p)
package placement
