// Package options is the option-list model behind a dropdown: labels, the
// selected index and value lookup.
package options

import (
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/dropkit/pkg/errors"
)

// List holds the labels of a dropdown and which one is selected.
// The zero value is an empty list.
type List struct {
	labels   []string
	selected int
}

// New creates a list with labels and the given selection.
func New(labels []string, selected int) (*List, error) {
	l := &List{}
	if err := l.Set(labels, selected); err != nil {
		return nil, err
	}
	return l, nil
}

// Set replaces the labels and selects index selected. An empty list resets
// the selection to 0.
func (l *List) Set(labels []string, selected int) error {
	if len(labels) == 0 {
		l.labels = nil
		l.selected = 0
		return nil
	}
	if selected < 0 || selected >= len(labels) {
		return errors.New(errors.ErrCodeInvalidInput, "selected index %d out of range [0, %d)", selected, len(labels))
	}
	l.labels = slices.Clone(labels)
	l.selected = selected
	return nil
}

// Len returns the number of options.
func (l *List) Len() int { return len(l.labels) }

// Labels returns a copy of the labels.
func (l *List) Labels() []string { return slices.Clone(l.labels) }

// Label returns the label at i, or "" when i is out of range.
func (l *List) Label(i int) string {
	if i < 0 || i >= len(l.labels) {
		return ""
	}
	return l.labels[i]
}

// Selected returns the selected index.
func (l *List) Selected() int { return l.selected }

// SetSelected selects index i.
func (l *List) SetSelected(i int) error {
	if len(l.labels) == 0 {
		return nil
	}
	if i < 0 || i >= len(l.labels) {
		return errors.New(errors.ErrCodeInvalidInput, "selected index %d out of range [0, %d)", i, len(l.labels))
	}
	l.selected = i
	return nil
}

// SetSelectedValue selects the first option labelled v. It reports whether
// such an option exists; the selection is unchanged otherwise.
func (l *List) SetSelectedValue(v string) bool {
	i := slices.Index(l.labels, v)
	if i < 0 {
		return false
	}
	l.selected = i
	return true
}

// Value returns the selected label, or "" for an empty list.
func (l *List) Value() string {
	return l.Label(l.selected)
}

// MaxWidth returns the widest label in terminal display cells.
func (l *List) MaxWidth() int {
	w := 0
	for _, s := range l.labels {
		w = max(w, runewidth.StringWidth(s))
	}
	return w
}

// Fit pads or truncates label to exactly width display cells.
func Fit(label string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(label) > width {
		return runewidth.Truncate(label, width, "…")
	}
	return runewidth.FillRight(label, width)
}
