package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/dropdown"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/options"
	"github.com/matzehuels/dropkit/pkg/overlay"
	"github.com/matzehuels/dropkit/pkg/placement"
	"github.com/matzehuels/dropkit/pkg/transition"
)

// Terminal metrics: one row per line, one cell of margin, a one-column
// scrollbar.
const (
	demoMargin      = 1
	demoScrollWidth = 1
	demoFooter      = 2
	demoAnchorLeft  = 2
)

var defaultDemoOptions = []string{
	"Apple", "Apricot", "Banana", "Blackberry", "Blueberry", "Cherry",
	"Coconut", "Damson", "Elderberry", "Fig", "Grape", "Guava", "Kiwi",
	"Lemon", "Lychee", "Mango", "Melon", "Nectarine", "Orange", "Papaya",
	"Peach", "Pear", "Plum", "Quince", "Raspberry", "梨 (nashi)", "柚子 (yuzu)",
}

// demoPalette holds the colours the demo blends between.
var demoPalette = struct {
	screen, text, overlayText, accent, shadow colorful.Color
}{
	screen:      colorful.Color{R: 0.11, G: 0.11, B: 0.14},
	text:        colorful.Color{R: 0.80, G: 0.82, B: 0.90},
	overlayText: colorful.Color{R: 0.12, G: 0.12, B: 0.15},
	accent:      colorful.Color{R: 0.37, G: 0.69, B: 0.69},
	shadow:      colorful.Color{R: 0, G: 0, B: 0},
}

// demoCommand creates the demo command, an interactive dropdown in the terminal.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		labels  []string
		top     int
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive dropdown in the terminal",
		Long: `Open a dropdown in the terminal and watch it place and animate itself.

Keys while closed: ↑/↓ move the dropdown, ⏎ opens it.
Keys while open:   ↑/↓ move the cursor, ⏎ chooses, esc closes.
Resize the terminal while the dropdown is open to see it re-laid out.`,
		Example: `  dropkit demo
  dropkit demo --options red,green,blue --top 3
  dropkit demo --log-file /tmp/dropkit.log -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			logger, closeLog, err := openLogFile(logFile, c.Logger.GetLevel())
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer closeLog()

			m, err := newDemoModel(cfg, labels, top, transition.SystemClock{}, logger)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return err
			}
			if m.chosen != "" {
				printSuccess("Selected %s", StyleHighlight.Render(m.chosen))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&labels, "options", defaultDemoOptions, "comma-separated option labels")
	cmd.Flags().IntVar(&top, "top", 2, "initial anchor row")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write overlay logs to this file")
	return cmd
}

// =============================================================================
// Scheduler
// =============================================================================

// frameMsg asks the model to run queued animation ticks.
type frameMsg time.Time

// teaScheduler queues tick requests and turns them into a single tea.Tick
// command, so every animation callback runs inside Update.
type teaScheduler struct {
	interval time.Duration
	queue    []func()
	armed    bool
}

// RequestTick implements transition.Scheduler.
func (s *teaScheduler) RequestTick(fn func()) {
	s.queue = append(s.queue, fn)
}

// cmd returns a tick command when work is queued and none is in flight.
func (s *teaScheduler) cmd() tea.Cmd {
	if s.armed || len(s.queue) == 0 {
		return nil
	}
	s.armed = true
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (s *teaScheduler) flush() {
	s.armed = false
	batch := s.queue
	s.queue = nil
	for _, fn := range batch {
		fn()
	}
}

// =============================================================================
// Surface
// =============================================================================

// cellSurface keeps the latest visuals for View to draw.
type cellSurface struct {
	attached    bool
	box         geom.Box
	shadow      float64
	previewFade float64
	rows        []float64
}

func (s *cellSurface) Attach() { s.attached = true }
func (s *cellSurface) Detach() {
	s.attached = false
	s.rows = s.rows[:0]
	s.shadow = 0
	s.previewFade = 1
}
func (s *cellSurface) ApplyBox(b geom.Box)              { s.box = b }
func (s *cellSurface) ApplyShadow(intensity float64)    { s.shadow = intensity }
func (s *cellSurface) ApplyPreviewFade(opacity float64) { s.previewFade = opacity }
func (s *cellSurface) ApplyRowProgress(i int, p float64) {
	for len(s.rows) <= i {
		s.rows = append(s.rows, 0)
	}
	s.rows[i] = p
}

func (s *cellSurface) row(i int) float64 {
	if i < 0 || i >= len(s.rows) {
		return 0
	}
	return s.rows[i]
}

// =============================================================================
// Model
// =============================================================================

type demoModel struct {
	dd      *dropdown.Dropdown
	geo     *overlay.StaticGeometry
	resize  *overlay.Signal
	surface *cellSurface
	sched   *teaScheduler
	logger  *log.Logger

	width, height int
	anchorRow     int
	cursor        int
	offset        int
	status        string
	chosen        string
}

func newDemoModel(cfg *config.Config, labels []string, top int, clock transition.Clock, logger *log.Logger) (*demoModel, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	m := &demoModel{
		geo:       &overlay.StaticGeometry{},
		resize:    overlay.NewSignal(),
		surface:   &cellSurface{previewFade: 1},
		sched:     &teaScheduler{interval: cfg.FrameInterval()},
		logger:    logger,
		anchorRow: max(top, 0),
		status:    "press enter to open",
	}

	dd, err := dropdown.New(dropdown.Config{
		ItemHeight: 1,
		CellWidth:  1,
		Overlay: overlay.Config{
			Engine:       placement.NewEngine(demoMargin, placement.FixedProbe(demoScrollWidth), policy),
			Geometry:     m.geo,
			Surface:      m.surface,
			Resize:       m.resize,
			Clock:        clock,
			Scheduler:    m.sched,
			Duration:     cfg.Duration(),
			FadeFraction: cfg.Transition.FadeFraction,
			Logger:       logger,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := dd.SetOptions(labels, 0); err != nil {
		return nil, err
	}
	dd.OnChange = func(_ int, v string) {
		m.chosen = v
		m.status = "selected " + v
		m.logger.Info("selection changed", "value", v)
	}
	dd.OnOpen = func() { m.status = "open" }
	m.dd = dd
	m.layoutAnchor()
	return m, nil
}

func (m *demoModel) Init() tea.Cmd { return nil }

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.geo.Viewport = geom.Viewport{Width: float64(m.width), Height: float64(max(m.height-demoFooter, 0))}
		m.layoutAnchor()
		m.resize.Notify()
		m.keepCursorVisible()

	case frameMsg:
		m.sched.flush()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.dd.Hide()
		case "enter", " ":
			if !m.dd.IsOpen() {
				m.cursor = m.dd.Selected()
				if err := m.dd.Show(); err != nil {
					m.status = err.Error()
				}
				m.keepCursorVisible()
			} else if err := m.dd.Choose(m.cursor); err != nil {
				m.status = err.Error()
			}
		case "up", "k":
			if m.dd.IsOpen() {
				m.cursor = max(m.cursor-1, 0)
				m.keepCursorVisible()
			} else {
				m.anchorRow--
				m.layoutAnchor()
			}
		case "down", "j":
			if m.dd.IsOpen() {
				m.cursor = min(m.cursor+1, len(m.dd.Labels())-1)
				m.keepCursorVisible()
			} else {
				m.anchorRow++
				m.layoutAnchor()
			}
		}
	}
	return m, m.sched.cmd()
}

// layoutAnchor clamps the anchor row to the viewport and sizes the preview
// to the widest label. The row is kept as requested until the first window
// size arrives.
func (m *demoModel) layoutAnchor() {
	if m.geo.Viewport.Height > 0 {
		maxRow := int(m.geo.Viewport.Height) - 1
		m.anchorRow = min(m.anchorRow, maxRow)
	}
	m.anchorRow = max(m.anchorRow, 0)
	m.geo.Anchor = geom.Anchor{
		Left:   demoAnchorLeft,
		Top:    float64(m.anchorRow),
		Width:  float64(m.previewWidth()),
		Height: 1,
	}
}

// previewWidth fits the widest label plus padding and the arrow.
func (m *demoModel) previewWidth() int {
	if m.dd == nil {
		return 4
	}
	return int(m.dd.Content().NaturalWidth) + 4
}

func (m *demoModel) visibleRows() int {
	p, ok := m.dd.Overlay().Placement()
	if !ok {
		return 0
	}
	return p.VisibleRows(len(m.dd.Labels()))
}

func (m *demoModel) keepCursorVisible() {
	rows := m.visibleRows()
	if rows == 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, len(m.dd.Labels())-rows), 0)
}

func (m *demoModel) View() string {
	if m.width == 0 {
		return ""
	}
	pal := demoPalette
	bg := m.dd.Background()
	cv := newCanvas(m.width, int(m.geo.Viewport.Height), pal.text, pal.screen)

	// Preview: the label fades out while the overlay opens.
	a := m.geo.Anchor
	ax, ay, aw := int(a.Left), int(a.Top), int(a.Width)
	cv.fill(ax, ay, aw, 1, bg)
	labelFg := bg.BlendLab(pal.overlayText, m.surface.previewFade).Clamped()
	cv.text(ax+1, ay, options.Fit(m.dd.Value(), aw-3), labelFg, bg)
	cv.text(ax+aw-2, ay, "▾", pal.overlayText, bg)

	if m.surface.attached {
		m.drawOverlay(cv, bg)
	}

	return cv.render() + "\n" + m.footer()
}

func (m *demoModel) drawOverlay(cv *canvas, bg colorful.Color) {
	pal := demoPalette
	box := m.surface.box.Round()
	x, y := int(box.Left), int(box.Top)
	w, h := int(box.Width), int(math.Ceil(box.Height))
	if w <= 0 || h <= 0 {
		return
	}

	// Shadow to the right and below, strength following the transition.
	shadow := 0.5 * m.surface.shadow
	cv.tint(x+w, y+1, 1, h, pal.shadow, shadow)
	cv.tint(x+1, y+h, w, 1, pal.shadow, shadow)

	cv.fill(x, y, w, h, bg)

	labels := m.dd.Labels()
	p, _ := m.dd.Overlay().Placement()
	textWidth := w - 2
	if p.Scrolls {
		textWidth -= demoScrollWidth
	}
	for i := 0; i < h; i++ {
		idx := m.offset + i
		if idx >= len(labels) {
			break
		}
		rowBg := bg
		if idx == m.cursor {
			rowBg = bg.BlendLab(pal.accent, 0.6).Clamped()
		}
		progress := m.surface.row(i)
		fg := rowBg.BlendLab(pal.overlayText, progress).Clamped()
		cv.fill(x, y+i, w, 1, rowBg)
		mark := " "
		if idx == m.dd.Selected() {
			mark = "✓"
		}
		cv.text(x, y+i, mark, fg, rowBg)
		cv.text(x+1, y+i, options.Fit(labels[idx], textWidth), fg, rowBg)
	}

	if p.Scrolls && h > 0 {
		track := bg.BlendLab(pal.overlayText, 0.15).Clamped()
		thumb := bg.BlendLab(pal.overlayText, 0.5).Clamped()
		size := max(h*h/len(labels), 1)
		pos := 0
		if rest := len(labels) - h; rest > 0 {
			pos = m.offset * (h - size) / rest
		}
		for i := 0; i < h; i++ {
			col := track
			if i >= pos && i < pos+size {
				col = thumb
			}
			cv.fill(x+w-1, y+i, 1, 1, col)
		}
	}
}

func (m *demoModel) footer() string {
	state := m.dd.State().String()
	var b strings.Builder
	b.WriteString(renderState(fmt.Sprintf("%-8s", state)))
	b.WriteString(" ")
	b.WriteString(progressBar(m.dd.Overlay().Progress(), 12))
	if p, ok := m.dd.Overlay().Placement(); ok {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d/%d rows", p.Direction(), p.VisibleRows(len(m.dd.Labels())), len(m.dd.Labels()))))
	}
	b.WriteString("  ")
	b.WriteString(StyleValue.Render(m.status))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ open/choose  esc close  q quit"))
	return b.String()
}
