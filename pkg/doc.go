// Package pkg provides the libraries behind dropkit, a placement and
// transition engine for dropdown overlays.
//
// # Overview
//
// A dropdown opens an overlay next to an anchor element. dropkit decides
// where that overlay goes and animates it in and out:
//
//	anchor + viewport + content
//	         ↓
//	    [placement] (direction, height, width, left shift)
//	         ↓
//	    [overlay] (state machine: closed, opening, open, closing)
//	         ↓
//	    [transition] (timed, reversible, staggered frames)
//	         ↓
//	    Surface (host applies box, shadow, fades)
//
// # Quick Start
//
// Compute a placement directly:
//
//	eng := placement.NewEngine(10, placement.FixedProbe(15), placement.SpaceComparison{})
//	p, err := eng.ComputeInitial(
//	    geom.Anchor{Left: 0, Top: 500, Width: 100, Height: 30},
//	    geom.Viewport{Width: 800, Height: 540},
//	    geom.Content{ItemHeight: 30, ItemCount: 10},
//	)
//	// p.Down == false, p.ViewHeight == 300
//
// Or run a whole open/close cycle without a host, for tests and tooling:
//
//	trace, err := overlay.Simulate(overlay.Script{Engine: eng, Anchor: a, Viewport: vp, Content: c})
//
// # Main Packages
//
// [geom] - Anchor, viewport, content and box geometry, with validation.
//
// [placement] - The position engine and its flip policies.
//
// [transition] - The animation controller, injectable clocks and schedulers,
// and the stagger/fade curves.
//
// [overlay] - The overlay lifecycle, its collaborator interfaces, and a
// scripted simulator.
//
// [options] and [dropdown] - The option list and the widget that ties it to
// an overlay.
//
// [config] - TOML configuration.
//
// [cache] - Trace caching for the HTTP API (file and Redis backends).
//
// [errors] - Coded errors shared by every package.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/geom
// [placement]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/placement
// [transition]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/transition
// [overlay]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/overlay
// [options]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/options
// [dropdown]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/dropdown
// [config]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/dropkit/pkg/errors
package pkg
