package observability

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"
)

// Counters aggregates overlay and HTTP events in memory. It implements both
// OverlayHooks and HTTPHooks and is safe for concurrent use.
type Counters struct {
	mu        sync.Mutex
	edges     map[string]int
	placement map[string]int
	completed map[string]int
	frames    int
	responses map[string]int
	calls     map[string]int
	latency   map[string]time.Duration
	inFlight  int
}

// NewCounters returns empty counters.
func NewCounters() *Counters {
	return &Counters{
		edges:     make(map[string]int),
		placement: make(map[string]int),
		completed: make(map[string]int),
		responses: make(map[string]int),
		calls:     make(map[string]int),
		latency:   make(map[string]time.Duration),
	}
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	// StateChanges counts edges keyed "from->to".
	StateChanges map[string]int `json:"state_changes"`
	// Placements counts "initial"/"resize" and "up"/"down"/"scrolls".
	Placements map[string]int `json:"placements"`
	// Transitions counts completed "open" and "close" directions.
	Transitions map[string]int `json:"transitions"`
	Frames      int            `json:"frames"`
	// Responses counts "METHOD route STATUS".
	Responses map[string]int `json:"responses"`
	// MeanLatencyMS is keyed "METHOD route".
	MeanLatencyMS map[string]float64 `json:"mean_latency_ms"`
	InFlight      int                `json:"in_flight"`
}

func (c *Counters) OnStateChange(_, from, to string) {
	c.mu.Lock()
	c.edges[from+"->"+to]++
	c.mu.Unlock()
}

func (c *Counters) OnPlacement(_, kind string, down, scrolls bool, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placement[kind]++
	if down {
		c.placement["down"]++
	} else {
		c.placement["up"]++
	}
	if scrolls {
		c.placement["scrolls"]++
	}
}

func (c *Counters) OnTransitionComplete(_ string, reversed bool, frames int, _ time.Duration) {
	dir := "open"
	if reversed {
		dir = "close"
	}
	c.mu.Lock()
	c.completed[dir]++
	c.frames += frames
	c.mu.Unlock()
}

func (c *Counters) OnRequest(context.Context, string, string) {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
}

func (c *Counters) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	key := method + " " + route
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.responses[key+" "+strconv.Itoa(status)]++
	c.calls[key]++
	c.latency[key] += d
}

// Snapshot copies the current counts.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		StateChanges:  maps.Clone(c.edges),
		Placements:    maps.Clone(c.placement),
		Transitions:   maps.Clone(c.completed),
		Frames:        c.frames,
		Responses:     maps.Clone(c.responses),
		MeanLatencyMS: make(map[string]float64, len(c.latency)),
		InFlight:      c.inFlight,
	}
	for k, d := range c.latency {
		s.MeanLatencyMS[k] = float64(d) / float64(time.Millisecond) / float64(c.calls[k])
	}
	return s
}

var (
	_ OverlayHooks = (*Counters)(nil)
	_ HTTPHooks    = (*Counters)(nil)
)
