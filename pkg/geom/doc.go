// Package geom defines the geometry snapshots exchanged between the overlay
// controller, the placement engine and the rendering surface.
//
// All values are plain float64 document coordinates. They are read-only
// snapshots: a caller samples an [Anchor] and a [Viewport] fresh for every
// placement computation and never caches them across frames.
//
// The unit is whatever the host measures in. The CLI demo uses terminal
// cells, the HTTP API and the tests use CSS-like pixels.
package geom
