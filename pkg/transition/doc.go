// Package transition drives the open/close animation of an overlay.
//
// A [Controller] turns wall-clock time into a progress value in [0, 1] and
// reports it, together with derived per-row stagger values, to a render
// callback. It owns no geometry: the overlay controller maps each [Frame]
// onto the current placement.
//
// # Timing
//
// Time and frame scheduling are injected capabilities. Production code uses
// [SystemClock] with a host scheduler (the bubbletea loop in the CLI demo);
// tests and simulations use [ManualClock] and [ManualScheduler] so no test
// depends on real timing.
//
// # Interruption
//
// [Controller.Reverse] preserves the rendered progress, so closing a menu
// that is still opening plays the remaining distance backward without a
// snap. [Controller.Cancel] settles the current direction synchronously and
// leaves the controller inert until the next Reverse.
//
// Frames of one controller are strictly ordered and never overlap: at most
// one tick is outstanding at any time.
package transition
