// Package dropdown is a single-selection dropdown widget built from an
// option list and an overlay controller.
//
// The widget owns the option labels and the selection; the overlay owns
// placement and the open/close animation. Change notifications are deferred
// until the overlay has finished closing so listeners observe a settled
// widget.
package dropdown

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/options"
	"github.com/matzehuels/dropkit/pkg/overlay"
)

const (
	// DefaultItemHeight is the row height used when Config.ItemHeight is zero.
	DefaultItemHeight = 30

	// fontRatio relates the default font size to the row height.
	fontRatio = 18.0 / 30.0
)

// DefaultBackground is the preview background used when none is configured.
var DefaultBackground = colorful.Color{R: 1, G: 1, B: 1}

// Config describes the widget's metrics and wiring.
type Config struct {
	// ItemHeight is the height of the preview and of each row.
	ItemHeight float64
	// FontSize defaults to round(18/30 × ItemHeight).
	FontSize float64
	// Width fixes the overlay width. Zero derives it from the widest label.
	Width float64
	// CellWidth is the width of one display cell of label text, used when
	// Width is zero. It defaults to half the font size.
	CellWidth float64
	// Background colours the preview and the overlay.
	Background *colorful.Color

	// Overlay wires the overlay controller. Its OnOpen/OnClose
	// notifications are owned by the widget.
	Overlay overlay.Config
}

// Dropdown is a single-selection dropdown.
type Dropdown struct {
	itemHeight float64
	fontSize   float64
	width      float64
	cellWidth  float64
	background colorful.Color

	list    *options.List
	overlay *overlay.Controller

	// changePending is set by Choose and consumed when the overlay closes.
	changePending bool

	// OnChange runs after a chosen option has been applied and the
	// overlay has closed.
	OnChange func(index int, value string)
	// OnOpen runs each time the overlay becomes fully open.
	OnOpen func()
}

// New creates a dropdown with no options.
func New(cfg Config) (*Dropdown, error) {
	if cfg.ItemHeight == 0 {
		cfg.ItemHeight = DefaultItemHeight
	}
	if err := errors.ValidatePositive("item_height", cfg.ItemHeight); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "dropdown item height")
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = math.Round(fontRatio * cfg.ItemHeight)
	}
	if cfg.CellWidth == 0 {
		cfg.CellWidth = cfg.FontSize / 2
	}
	if cfg.Width < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dropdown width must be non-negative, got %g", cfg.Width)
	}
	bg := DefaultBackground
	if cfg.Background != nil {
		bg = *cfg.Background
	}

	ctrl, err := overlay.New(cfg.Overlay)
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}
	d := &Dropdown{
		itemHeight: cfg.ItemHeight,
		fontSize:   cfg.FontSize,
		width:      cfg.Width,
		cellWidth:  cfg.CellWidth,
		background: bg,
		list:       &options.List{},
		overlay:    ctrl,
	}
	ctrl.OnOpen(d.opened)
	ctrl.OnClose(d.closed)
	return d, nil
}

// SetOptions replaces the option labels and selects index selected. It is a
// programming error to call it while the overlay is showing.
func (d *Dropdown) SetOptions(labels []string, selected int) error {
	if d.overlay.IsOpen() {
		return errors.New(errors.ErrCodeMisuse, "cannot set options while open")
	}
	return d.list.Set(labels, selected)
}

// Show opens the overlay. It does nothing when already showing or when
// there are no options.
func (d *Dropdown) Show() error {
	if d.overlay.IsOpen() || d.list.Len() == 0 {
		return nil
	}
	return d.overlay.Show(d.Content())
}

// Hide closes the overlay without changing the selection.
func (d *Dropdown) Hide() { d.overlay.Hide() }

// Resize forwards a viewport change to the overlay.
func (d *Dropdown) Resize() { d.overlay.OnResize() }

// Choose selects option i as if the user clicked it: the overlay hides, the
// selection changes at once and OnChange runs once the overlay has closed.
// It does nothing unless the overlay is Open or Opening.
func (d *Dropdown) Choose(i int) error {
	st := d.overlay.State()
	if st != overlay.Open && st != overlay.Opening {
		return nil
	}
	if i < 0 || i >= d.list.Len() {
		return errors.New(errors.ErrCodeInvalidInput, "option %d out of range [0, %d)", i, d.list.Len())
	}
	d.changePending = true
	d.overlay.Hide()
	return d.list.SetSelected(i)
}

// SetSelected selects index i without notifying OnChange.
func (d *Dropdown) SetSelected(i int) error { return d.list.SetSelected(i) }

// SetSelectedValue selects the first option labelled v, if any.
func (d *Dropdown) SetSelectedValue(v string) bool { return d.list.SetSelectedValue(v) }

// IsOpen reports whether the overlay is showing in any state but Closed.
func (d *Dropdown) IsOpen() bool { return d.overlay.IsOpen() }

// State returns the overlay state.
func (d *Dropdown) State() overlay.State { return d.overlay.State() }

// Selected returns the selected index.
func (d *Dropdown) Selected() int { return d.list.Selected() }

// Value returns the selected label.
func (d *Dropdown) Value() string { return d.list.Value() }

// Labels returns a copy of the option labels.
func (d *Dropdown) Labels() []string { return d.list.Labels() }

// Overlay exposes the underlying controller for rendering and inspection.
func (d *Dropdown) Overlay() *overlay.Controller { return d.overlay }

// ItemHeight returns the row height.
func (d *Dropdown) ItemHeight() float64 { return d.itemHeight }

// FontSize returns the label font size.
func (d *Dropdown) FontSize() float64 { return d.fontSize }

// Background returns the preview background colour.
func (d *Dropdown) Background() colorful.Color { return d.background }

// Content describes the rows the overlay would show.
func (d *Dropdown) Content() geom.Content {
	width := d.width
	if width == 0 {
		width = float64(d.list.MaxWidth()) * d.cellWidth
	}
	return geom.Content{
		ItemHeight:   d.itemHeight,
		ItemCount:    d.list.Len(),
		NaturalWidth: width,
	}
}

func (d *Dropdown) opened() {
	if d.OnOpen != nil {
		d.OnOpen()
	}
}

func (d *Dropdown) closed() {
	if !d.changePending {
		return
	}
	d.changePending = false
	if d.OnChange != nil {
		d.OnChange(d.list.Selected(), d.list.Value())
	}
}
