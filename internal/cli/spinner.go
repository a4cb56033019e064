package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner redraws a one-line status on w until stopped or until its
// context ends.
type spinner struct {
	w       io.Writer
	message string

	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu     sync.Mutex
	frames int
}

// startSpinner begins animating message on w.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, message: message, cancel: cancel, stopped: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := spinnerFrames[s.frames%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.frames++
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", runewidth.StringWidth(s.message)+2))
}

// stop ends the animation and waits for the line to be cleared. Safe to
// call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// drawn is the number of frames written so far.
func (s *spinner) drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
