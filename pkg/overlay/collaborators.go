package overlay

import (
	"github.com/matzehuels/dropkit/pkg/geom"
)

// Geometry samples the anchor and the viewport. It is called fresh for every
// placement and every frame; implementations must not cache.
type Geometry interface {
	MeasureAnchor() geom.Anchor
	MeasureViewport() geom.Viewport
}

// Surface mounts the overlay and applies computed visuals to it.
type Surface interface {
	// Attach mounts the overlay and its shielding backdrop.
	Attach()
	// Detach unmounts both.
	Detach()

	ApplyBox(b geom.Box)
	ApplyShadow(intensity float64)
	ApplyPreviewFade(opacity float64)
	ApplyRowProgress(index int, progress float64)
}

// ResizeSource delivers viewport resize notifications.
type ResizeSource interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func()) (unsubscribe func())
}

// StaticGeometry is a Geometry backed by plain values the caller updates.
type StaticGeometry struct {
	Anchor   geom.Anchor
	Viewport geom.Viewport
}

// MeasureAnchor implements Geometry.
func (g *StaticGeometry) MeasureAnchor() geom.Anchor { return g.Anchor }

// MeasureViewport implements Geometry.
func (g *StaticGeometry) MeasureViewport() geom.Viewport { return g.Viewport }

// Signal is a ResizeSource that fans Notify out to its subscribers.
type Signal struct {
	next int
	subs map[int]func()
}

// NewSignal creates a signal with no subscribers.
func NewSignal() *Signal {
	return &Signal{subs: make(map[int]func())}
}

// Subscribe implements ResizeSource.
func (s *Signal) Subscribe(fn func()) func() {
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Notify calls every subscriber.
func (s *Signal) Notify() {
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Signal) Subscribers() int { return len(s.subs) }
