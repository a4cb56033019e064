package cli

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRowBars(t *testing.T) {
	tests := []struct {
		rows []float64
		want string
	}{
		{nil, ""},
		{[]float64{0, 1}, " █"},
		{[]float64{0.5}, "▄"},
		{[]float64{-1, 2}, " █"},
	}
	for _, tt := range tests {
		if got := rowBars(tt.rows); got != tt.want {
			t.Errorf("rowBars(%v) = %q, want %q", tt.rows, got, tt.want)
		}
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, p := range []float64{0, 0.33, 1, 1.5} {
		bar := progressBar(p, 10)
		cells := strings.Count(bar, "█") + strings.Count(bar, "░")
		if cells != 10 {
			t.Errorf("progressBar(%g) has %d cells, want 10", p, cells)
		}
	}
	if progressBar(0.5, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}

func TestRenderState(t *testing.T) {
	for _, s := range []string{"closed", "opening", "open", "closing", "weird"} {
		if got := renderState(s); !strings.Contains(got, s) {
			t.Errorf("renderState(%q) = %q", s, got)
		}
	}
}

func TestRenderStateKeepsPadding(t *testing.T) {
	padded := fmt.Sprintf("%-8s", "open")
	got := renderState(padded)
	if !strings.Contains(got, padded) {
		t.Errorf("renderState(%q) = %q, want padding kept", padded, got)
	}
	if got != stateStyles["open"].Render(padded) {
		t.Errorf("padded state not styled: %q", got)
	}
}

func TestNewTable(t *testing.T) {
	tb := newTable("from", "to")
	tb.Row("closed", "opening")
	out := tb.Render()
	for _, want := range []string{"from", "closed", "opening"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if !utf8.ValidString(out) {
		t.Error("table output is not valid UTF-8")
	}
}
