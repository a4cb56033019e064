package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// cell is one terminal cell. A wide rune occupies its cell and marks the
// next one as a continuation.
type cell struct {
	ch   rune
	fg   colorful.Color
	bg   colorful.Color
	cont bool
}

// canvas is a fixed-size grid of coloured cells rendered to ANSI text.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int, fg, bg colorful.Color) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{ch: ' ', fg: fg, bg: bg}
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// put writes r at (x, y), repairing any wide rune it overlaps.
func (c *canvas) put(x, y int, r rune, fg, bg colorful.Color) int {
	rw := runewidth.RuneWidth(r)
	if rw == 0 {
		return 0
	}
	if x+rw > c.w {
		return rw
	}
	for i := 0; i < rw; i++ {
		cl := c.at(x+i, y)
		if cl == nil {
			return rw
		}
		if cl.cont {
			if prev := c.at(x+i-1, y); prev != nil {
				prev.ch = ' '
			}
		}
		if next := c.at(x+i+1, y); next != nil && next.cont && runewidth.RuneWidth(cl.ch) == 2 {
			next.cont = false
			next.ch = ' '
		}
	}
	head := c.at(x, y)
	*head = cell{ch: r, fg: fg, bg: bg}
	if rw == 2 {
		*c.at(x+1, y) = cell{cont: true, fg: fg, bg: bg}
	}
	return rw
}

// text writes s starting at (x, y) and returns the cells used.
func (c *canvas) text(x, y int, s string, fg, bg colorful.Color) int {
	used := 0
	for _, r := range s {
		used += c.put(x+used, y, r, fg, bg)
	}
	return used
}

// fill paints a rectangle with spaces on bg.
func (c *canvas) fill(x, y, w, h int, bg colorful.Color) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if cl := c.at(xx, yy); cl != nil {
				c.put(xx, yy, ' ', cl.fg, bg)
			}
		}
	}
}

// tint blends the background of a rectangle toward col by t.
func (c *canvas) tint(x, y, w, h int, col colorful.Color, t float64) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if cl := c.at(xx, yy); cl != nil {
				cl.bg = cl.bg.BlendLab(col, t).Clamped()
			}
		}
	}
}

// render emits one line per row, grouping runs of identical colours.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var (
			run   strings.Builder
			style cell
			open  bool
		)
		flush := func() {
			if !open {
				return
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(style.fg.Hex())).
				Background(lipgloss.Color(style.bg.Hex())).
				Render(run.String()))
			run.Reset()
			open = false
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.cont {
				continue
			}
			if !open || cl.fg != style.fg || cl.bg != style.bg {
				flush()
				style, open = cl, true
			}
			run.WriteRune(cl.ch)
		}
		flush()
	}
	return b.String()
}
