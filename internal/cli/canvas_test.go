package cli

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	testFg = colorful.Color{R: 1, G: 1, B: 1}
	testBg = colorful.Color{}
)

func plain(c *canvas) []string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if !cl.cont {
				b.WriteRune(cl.ch)
			}
		}
		lines[y] = b.String()
	}
	return lines
}

func TestCanvasText(t *testing.T) {
	tests := []struct {
		name string
		x    int
		text string
		want string
		used int
	}{
		{"ascii", 1, "abc", " abc  ", 3},
		{"wide runes", 0, "日本", "日本  ", 4},
		{"clipped at edge", 4, "xyz", "    xy", 3},
		{"wide rune does not split", 5, "日", "      ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(6, 1, testFg, testBg)
			used := c.text(tt.x, 0, tt.text, testFg, testBg)
			if got := plain(c)[0]; got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
			if used != tt.used {
				t.Errorf("used = %d, want %d", used, tt.used)
			}
		})
	}
}

func TestCanvasOverwriteWideRune(t *testing.T) {
	c := newCanvas(4, 1, testFg, testBg)
	c.text(0, 0, "日", testFg, testBg)
	c.put(1, 0, 'x', testFg, testBg)
	if got := plain(c)[0]; got != " x  " {
		t.Errorf("line = %q, want %q", got, " x  ")
	}

	c = newCanvas(4, 1, testFg, testBg)
	c.text(0, 0, "日", testFg, testBg)
	c.put(0, 0, 'y', testFg, testBg)
	if got := plain(c)[0]; got != "y   " {
		t.Errorf("line = %q, want %q", got, "y   ")
	}
}

func TestCanvasFillAndTint(t *testing.T) {
	red := colorful.Color{R: 1}
	c := newCanvas(3, 2, testFg, testBg)
	c.fill(1, 0, 5, 5, red)
	if c.at(0, 0).bg != testBg || c.at(2, 1).bg != red {
		t.Error("fill painted the wrong cells")
	}
	c.tint(0, 0, 1, 1, red, 1)
	if got := c.at(0, 0).bg; got.DistanceLab(red) > 1e-3 {
		t.Errorf("full tint = %v, want %v", got, red)
	}
	if c.at(-1, 0) != nil || c.at(3, 0) != nil {
		t.Error("at() should reject out-of-range cells")
	}
}

func TestCanvasRender(t *testing.T) {
	c := newCanvas(5, 2, testFg, testBg)
	c.text(0, 0, "hi", testFg, colorful.Color{B: 1})
	out := c.render()
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("render produced %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "hi") {
		t.Errorf("first line %q is missing text", lines[0])
	}
}

func TestCanvasEmpty(t *testing.T) {
	c := newCanvas(-1, 0, testFg, testBg)
	if c.render() != "" {
		t.Error("empty canvas should render nothing")
	}
}
