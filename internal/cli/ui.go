package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette. ANSI 256 codes so output looks the same on light and dark
// terminals.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleHighlight marks chosen values and filled progress.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim is for secondary text: IDs, empty progress, hints.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue is for the demo status line.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleSuccess and StyleWarning colour yes/no flags such as "scrolls".
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

// stateStyles colours overlay states: idle is dim, moving states are warm,
// settled open is green.
var stateStyles = map[string]lipgloss.Style{
	"closed":  lipgloss.NewStyle().Foreground(colorDim),
	"opening": lipgloss.NewStyle().Foreground(colorYellow),
	"open":    lipgloss.NewStyle().Foreground(colorGreen),
	"closing": lipgloss.NewStyle().Foreground(colorRed),
}

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(StyleSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Println(lipgloss.NewStyle().Foreground(colorGray).Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a printInfo heading.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep suggests a follow-up command, e.g. after config init.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// newTable returns a rounded table with bold grey headers.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
}

// renderState colours a state name. Surrounding padding is kept so callers
// can align columns before colouring.
func renderState(state string) string {
	if s, ok := stateStyles[strings.TrimSpace(state)]; ok {
		return s.Render(state)
	}
	return state
}

// progressBar renders p in [0,1] as a bar of width cells.
func progressBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(p*float64(width)+0.5), 0), width)
	return StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}

var sparkGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// rowBars renders per-row progress as a sparkline, one glyph per row.
func rowBars(rows []float64) string {
	top := len(sparkGlyphs) - 1
	var b strings.Builder
	for _, r := range rows {
		b.WriteRune(sparkGlyphs[min(max(int(r*float64(top)+0.5), 0), top)])
	}
	return b.String()
}
