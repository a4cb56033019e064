// Package overlay orchestrates a dropdown overlay through its open/close
// cycle.
//
// A [Controller] owns the show/hide state machine, one placement engine and,
// while a cycle is active, one transition controller. It samples geometry
// from a [Geometry] source, applies boxes, opacities and row reveals to a
// [Surface], and listens to a [ResizeSource] only while the overlay is not
// closed.
//
// # States
//
//	Closed  --show-->  Opening  --done/resize-->  Open
//	Opening --hide-->  Closing  <--hide--         Open
//	Closing --done-->  Closed
//
// Every other request is a no-op: Show while not Closed, Hide while Closed or
// Closing, resize while Closing or Closed.
//
// A resize that arrives while the overlay is still opening forces the
// transition to its open state first and then re-lays the overlay out, so
// geometry is settled before the new placement is applied.
//
// All methods must be called from the goroutine that runs the scheduler's
// ticks.
package overlay
