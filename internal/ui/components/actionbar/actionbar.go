package actionbar

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/railgraph/fossview/internal/ui/styles"
)

type Model struct {
	styles *styles.Styles
	status string
	branch string
	width  int
}

func New(styles *styles.Styles, width int) Model {
	return Model{
		styles: styles,
		width:  width,
		branch: "main",
	}
}

func (m Model) View() string {
	leftPart := m.styles.Help.Render(m.leftText())
	statusText := m.branch + " ✓"
	rightPart := m.styles.BranchName.Render(statusText)

	padding := m.width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart)
	if padding < 0 {
		padding = 0
	}

	spacer := lipgloss.NewStyle().Width(padding).Render(" ")

	return m.styles.StatusBar.Render(leftPart + spacer + rightPart)
}

// leftText shows a transient status message (set after a git operation) in
// place of the static keybinding hints until it's cleared.
func (m Model) leftText() string {
	if m.status != "" {
		return m.status
	}
	return "[c]ommit  [p]ush  [P]ull  [f]etch  [b]ranch  [?]help"
}

func (m *Model) SetBranch(branch string) {
	m.branch = branch
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m *Model) SetMessage(status string) {
	m.status = status
}

func (m *Model) ClearMessage() {
	m.status = ""
}
