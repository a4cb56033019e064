package overlay

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// StateGraphDOT returns a Graphviz DOT digraph of the overlay state machine,
// one node per State and one edge per entry in Edges.
func StateGraphDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph Overlay {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [fontname=\"SF Mono, Menlo, monospace\", fontsize=11];\n\n")

	for s := Closed; s <= Closing; s++ {
		shape := ""
		if s == Closed {
			shape = ", peripheries=2"
		}
		fmt.Fprintf(&buf, "  %s [label=%q%s];\n", s, s.String(), shape)
	}
	buf.WriteString("\n")
	for _, e := range Edges {
		fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", e.From, e.To, e.Event)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderStateGraphSVG renders StateGraphDOT to SVG with the in-process
// Graphviz library.
func RenderStateGraphSVG(ctx context.Context) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(StateGraphDOT()))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
