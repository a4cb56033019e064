// Package observability lets the host observe overlay cycles and HTTP
// traffic without the library packages depending on a metrics backend.
//
// Libraries call the registered hooks; main registers implementations once
// at startup. The defaults do nothing.
//
//	stats := observability.NewCounters()
//	observability.SetOverlayHooks(stats)
//	observability.SetHTTPHooks(stats)
//
// Library side:
//
//	observability.Overlay().OnStateChange(cycleID, "closed", "opening")
package observability

import (
	"context"
	"sync"
	"time"
)

// OverlayHooks receives events from overlay controllers. cycleID identifies
// one open/close cycle.
type OverlayHooks interface {
	// OnStateChange records a state machine edge.
	OnStateChange(cycleID, from, to string)
	// OnPlacement records a computed placement. kind is "initial" or "resize".
	OnPlacement(cycleID, kind string, down, scrolls bool, viewHeight float64)
	// OnTransitionComplete records the end of one direction of a transition.
	OnTransitionComplete(cycleID string, reversed bool, frames int, elapsed time.Duration)
}

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	// OnResponse receives the matched route pattern as route, so callers can
	// aggregate without unbounded label sets.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopOverlayHooks discards overlay events.
type NoopOverlayHooks struct{}

func (NoopOverlayHooks) OnStateChange(string, string, string)                  {}
func (NoopOverlayHooks) OnPlacement(string, string, bool, bool, float64)       {}
func (NoopOverlayHooks) OnTransitionComplete(string, bool, int, time.Duration) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu      sync.RWMutex
	overlay OverlayHooks
	http    HTTPHooks
}

var hooks = registry{overlay: NoopOverlayHooks{}, http: NoopHTTPHooks{}}

// SetOverlayHooks registers h for all overlay controllers. nil is ignored.
func SetOverlayHooks(h OverlayHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.overlay = h
	hooks.mu.Unlock()
}

// SetHTTPHooks registers h for the HTTP API. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Overlay returns the registered overlay hooks.
func Overlay() OverlayHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.overlay
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores the no-op hooks. Tests use it in cleanup.
func Reset() {
	hooks.mu.Lock()
	hooks.overlay = NoopOverlayHooks{}
	hooks.http = NoopHTTPHooks{}
	hooks.mu.Unlock()
}
