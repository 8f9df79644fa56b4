package layout

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout arranges the single graph panel, an optional inline modal area
// (commit editor, help, branch picker) and the action bar into one screen.
// The teacher's layout split the screen left/right at splitRatio; the graph
// panel now owns the full width, so splitRatio is kept for config
// compatibility but no longer divides the screen.
type Layout struct {
	width      int
	height     int
	splitRatio float64

	background lipgloss.Color
	border     lipgloss.Color
	foreground lipgloss.Color
}

func New(width, height int, splitRatio float64, background, border, foreground lipgloss.Color) *Layout {
	return &Layout{
		width:      width,
		height:     height,
		splitRatio: splitRatio,
		background: background,
		border:     border,
		foreground: foreground,
	}
}

// Calculate returns the content area available to the graph panel when no
// inline modal is showing. One row is reserved for the action bar.
func (l *Layout) Calculate() (contentWidth, contentHeight int) {
	return l.CalculateWithExtra(0)
}

// CalculateWithExtra reserves extraHeight additional rows (an inline modal)
// above the action bar.
func (l *Layout) CalculateWithExtra(extraHeight int) (contentWidth, contentHeight int) {
	contentWidth = l.width
	contentHeight = l.height - 1 - extraHeight
	if contentHeight < 0 {
		contentHeight = 0
	}
	return
}

// RenderWithExtra stacks the main panel, an optional modal panel, and the
// action bar vertically. extraPanel is omitted entirely when empty so the
// graph panel reclaims its row.
func (l *Layout) RenderWithExtra(mainPanel, extraPanel, actionBar string) string {
	base := lipgloss.NewStyle().Background(l.background).Foreground(l.foreground)

	rows := []string{base.Render(mainPanel)}
	if extraPanel != "" {
		divider := lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(l.border)
		rows = append(rows, divider.Render(extraPanel))
	}
	rows = append(rows, actionBar)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}
