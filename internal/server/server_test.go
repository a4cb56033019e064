package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/observability"
	"github.com/matzehuels/dropkit/pkg/overlay"
	"github.com/matzehuels/dropkit/pkg/placement"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(config.Default(), log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestPlacement(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/placement", `{
		"anchor": {"left": 0, "top": 500, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 540},
		"content": {"item_height": 30, "item_count": 10}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p placement.Placement
	decodeBody(t, resp, &p)
	if p.Down || p.ViewHeight != 300 || p.Top != 230 || p.Scrolls {
		t.Errorf("placement = %+v, want up 300 at top 230", p)
	}
}

func TestPlacementOverrides(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/placement", `{
		"anchor": {"left": 0, "top": 100, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 300},
		"content": {"item_height": 30, "item_count": 10, "natural_width": 100},
		"margin": 0,
		"scroll_width": 15
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p placement.Placement
	decodeBody(t, resp, &p)
	if !p.Scrolls || p.Width != 115 {
		t.Errorf("placement = %+v, want scrolling with width 115", p)
	}
}

func TestPlacementErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name     string
		body     string
		wantCode errors.Code
	}{
		{"malformed json", `{"anchor":`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"bogus": 1}`, errors.ErrCodeInvalidInput},
		{"empty content", `{"anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":0}}`, errors.ErrCodeInvalidContent},
		{"negative viewport", `{"anchor":{"height":30},"viewport":{"width":-1,"height":600},"content":{"item_height":30,"item_count":2}}`, errors.ErrCodeInvalidGeometry},
		{"unknown policy", `{"flip_policy":"sideways","anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":2}}`, errors.ErrCodeInvalidPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/placement", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Code != string(tt.wantCode) {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/placement/recompute", `{
		"anchor": {"left": 0, "top": 500, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 540},
		"prior": {"down": false, "view_height": 300, "width": 100, "requested_height": 300, "item_height": 30}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p placement.Placement
	decodeBody(t, resp, &p)
	if p.Down || p.ViewHeight != 300 || p.Top != 230 {
		t.Errorf("placement = %+v", p)
	}
}

func TestRecomputeRejectsBadPrior(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/placement/recompute", `{
		"anchor": {"height": 30},
		"viewport": {"width": 800, "height": 540},
		"prior": {"view_height": 300}
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSimulate(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/transition/simulate", `{
		"anchor": {"left": 0, "top": 500, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 540},
		"content": {"item_height": 30, "item_count": 10},
		"duration_ms": 100,
		"hide_at_ms": 200
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var tr overlay.Trace
	decodeBody(t, resp, &tr)
	if tr.FinalState != "closed" || tr.Opens != 1 || tr.Closes != 1 {
		t.Errorf("trace final=%q opens=%d closes=%d", tr.FinalState, tr.Opens, tr.Closes)
	}
	if len(tr.Samples) == 0 || tr.Samples[0].Event != "show" {
		t.Errorf("samples = %+v", tr.Samples)
	}
}

func TestSimulateCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(config.Default(), log.New(io.Discard), WithCache(fc))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	body := `{
		"anchor": {"left": 0, "top": 100, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 600},
		"content": {"item_height": 30, "item_count": 3},
		"duration_ms": 50
	}`
	first := post(t, ts, "/v1/transition/simulate", body)
	if got := first.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	var a overlay.Trace
	decodeBody(t, first, &a)

	second := post(t, ts, "/v1/transition/simulate", body)
	if got := second.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	var b overlay.Trace
	decodeBody(t, second, &b)
	if a.CycleID != b.CycleID || len(a.Samples) != len(b.Samples) {
		t.Errorf("cached trace differs: %s/%d vs %s/%d", a.CycleID, len(a.Samples), b.CycleID, len(b.Samples))
	}

	other := post(t, ts, "/v1/transition/simulate", strings.Replace(body, `"duration_ms": 50`, `"duration_ms": 60`, 1))
	if got := other.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("changed request X-Cache = %q, want miss", got)
	}
}

func TestSimulateValidation(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"resize without viewport", `{"anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":2},"resize_at_ms":10}`},
		{"zero frame interval", `{"anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":2},"frame_interval_ms":0}`},
		{"bad fade", `{"anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":2},"fade_fraction":1.5}`},
		{"too many frames", `{"anchor":{"height":30},"viewport":{"width":800,"height":600},"content":{"item_height":30,"item_count":2},"duration_ms":100000}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/transition/simulate", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeMisuse, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeConfig, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type countingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  int
	responses []int
	routes    []string
}

func (h *countingHTTPHooks) OnRequest(context.Context, string, string) { h.requests++ }
func (h *countingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.responses = append(h.responses, status)
	h.routes = append(h.routes, route)
}

func TestObserveMiddleware(t *testing.T) {
	hooks := &countingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := New(nil, log.New(io.Discard))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/placement", bytes.NewBufferString("{"))
	s.Handler().ServeHTTP(rec, req)

	if hooks.requests != 1 {
		t.Errorf("requests = %d, want 1", hooks.requests)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != http.StatusBadRequest {
		t.Errorf("responses = %v, want [400]", hooks.responses)
	}

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	want := []string{"/v1/placement", unmatchedRoute}
	if len(hooks.routes) != 2 || hooks.routes[0] != want[0] || hooks.routes[1] != want[1] {
		t.Errorf("routes = %v, want %v", hooks.routes, want)
	}
}

func TestStats(t *testing.T) {
	stats := observability.NewCounters()
	observability.SetOverlayHooks(stats)
	observability.SetHTTPHooks(stats)
	t.Cleanup(observability.Reset)

	s := New(nil, log.New(io.Discard), WithStats(stats))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	post(t, ts, "/v1/transition/simulate", `{
		"anchor": {"left": 0, "top": 100, "width": 100, "height": 30},
		"viewport": {"width": 800, "height": 600},
		"content": {"item_height": 30, "item_count": 3},
		"hide_at_ms": 400
	}`)

	resp, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snap observability.Snapshot
	decodeBody(t, resp, &snap)

	if got := snap.Responses["POST /v1/transition/simulate 200"]; got != 1 {
		t.Errorf("simulate responses = %d, want 1 (%v)", got, snap.Responses)
	}
	if snap.StateChanges["closed->opening"] != 1 || snap.StateChanges["closing->closed"] != 1 {
		t.Errorf("state changes = %v", snap.StateChanges)
	}
	if snap.Transitions["open"] != 1 || snap.Transitions["close"] != 1 {
		t.Errorf("transitions = %v", snap.Transitions)
	}
}

func TestStatsRouteDisabledByDefault(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(nil, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
