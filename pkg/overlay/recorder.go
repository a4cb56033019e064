package overlay

import (
	"fmt"

	"github.com/matzehuels/dropkit/pkg/geom"
)

// Recorder is a Surface that keeps the latest applied values and a log of
// calls. The CLI simulation and the HTTP API render through it.
type Recorder struct {
	Attached    bool
	Box         geom.Box
	Shadow      float64
	PreviewFade float64
	Rows        []float64

	Events []string
}

// NewRecorder creates an empty recorder with the preview fully visible.
func NewRecorder() *Recorder {
	return &Recorder{PreviewFade: 1}
}

// Attach implements Surface.
func (r *Recorder) Attach() {
	r.Attached = true
	r.Events = append(r.Events, "attach")
}

// Detach implements Surface.
func (r *Recorder) Detach() {
	r.Attached = false
	r.Rows = r.Rows[:0]
	r.Events = append(r.Events, "detach")
}

// ApplyBox implements Surface.
func (r *Recorder) ApplyBox(b geom.Box) {
	r.Box = b
	r.Events = append(r.Events, fmt.Sprintf("box %g,%g %gx%g", b.Left, b.Top, b.Width, b.Height))
}

// ApplyShadow implements Surface.
func (r *Recorder) ApplyShadow(intensity float64) { r.Shadow = intensity }

// ApplyPreviewFade implements Surface.
func (r *Recorder) ApplyPreviewFade(opacity float64) { r.PreviewFade = opacity }

// ApplyRowProgress implements Surface.
func (r *Recorder) ApplyRowProgress(index int, progress float64) {
	for len(r.Rows) <= index {
		r.Rows = append(r.Rows, 0)
	}
	r.Rows[index] = progress
}

// Count returns how many logged events equal name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.Events {
		if e == name {
			n++
		}
	}
	return n
}
