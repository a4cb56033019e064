package geom

import (
	"os"

	"golang.org/x/term"

	"github.com/matzehuels/dropkit/pkg/errors"
)

// TerminalViewport measures the terminal attached to f in cells.
// It fails when f is not a terminal.
func TerminalViewport(f *os.File) (Viewport, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Viewport{}, errors.New(errors.ErrCodeUnsupported, "%s is not a terminal", f.Name())
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return Viewport{}, errors.Wrap(errors.ErrCodeInternal, err, "measure terminal")
	}
	return Viewport{Width: float64(w), Height: float64(h)}, nil
}
