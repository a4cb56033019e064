package overlay

import (
	"strings"
	"testing"
)

func TestStateGraphDOT(t *testing.T) {
	dot := StateGraphDOT()

	if !strings.HasPrefix(dot, "digraph Overlay {") {
		t.Errorf("unexpected header: %q", strings.SplitN(dot, "\n", 2)[0])
	}
	for _, want := range []string{
		`closed [label="closed", peripheries=2];`,
		`closed -> opening [label="show"];`,
		`opening -> open [label="resize"];`,
		`closing -> closed [label="transition done"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if got := strings.Count(dot, "->"); got != len(Edges) {
		t.Errorf("DOT has %d edges, want %d", got, len(Edges))
	}
}
