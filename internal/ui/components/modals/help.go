package modals

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/railgraph/fossview/internal/ui/styles"
)

type HelpModal struct {
	styles  *styles.Styles
	visible bool
	width   int
	height  int
}

func NewHelpModal(styles *styles.Styles) HelpModal {
	return HelpModal{
		styles:  styles,
		visible: false,
	}
}

func (m HelpModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render("Keybindings")

	helpText := `
Navigation:
  j/↓       - Move down
  k/↑       - Move up
  g/Home    - Go to top
  G/End     - Go to bottom
  Ctrl+D    - Page down
  Ctrl+U    - Page up

Actions:
  c         - Commit
  p         - Push
  P         - Pull
  f         - Fetch
  b         - Branch picker (type to fuzzy-filter)
  Enter     - Expand/collapse commit details
  Esc       - Collapse expanded commit

Clipboard:
  y         - Copy commit hash
  Y         - Copy commit message
  Ctrl+Y    - Copy diff

General:
  ?         - Toggle help
  q/Ctrl+C  - Quit

Note: Native terminal text selection works with mouse drag.
`

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.styles.Help.Render(helpText),
	)

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return m.styles.PanelFocused.Width(width).Render(content)
}

func (m *HelpModal) Toggle() {
	m.visible = !m.visible
}

func (m *HelpModal) IsVisible() bool {
	return m.visible
}

// Height returns the number of terminal rows this component occupies when visible.
func (m *HelpModal) Height() int {
	if !m.visible {
		return 0
	}
	return lipgloss.Height(m.View())
}

func (m *HelpModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}
