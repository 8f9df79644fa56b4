package modals

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/railgraph/fossview/internal/ui/styles"
)

type CommitModal struct {
	textarea textarea.Model
	styles   *styles.Styles
	visible  bool
	width    int
	height   int
}

func NewCommitModal(styles *styles.Styles) CommitModal {
	ta := textarea.New()
	ta.Placeholder = "Commit message..."
	ta.SetWidth(60)
	ta.SetHeight(10)
	ta.CharLimit = 500

	return CommitModal{
		textarea: ta,
		styles:   styles,
		visible:  false,
	}
}

func (m CommitModal) Init() tea.Cmd {
	return textarea.Blink
}

func (m CommitModal) Update(msg tea.Msg) (CommitModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m CommitModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render("Commit Message")
	help := m.styles.Help.Render("Enter: Commit | Esc: Cancel")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.textarea.View(),
		"",
		help,
	)

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return m.styles.PanelFocused.Width(width).Render(content)
}

func (m *CommitModal) Show() {
	m.visible = true
	m.textarea.Focus()
	m.textarea.SetValue("")
}

func (m *CommitModal) Hide() {
	m.visible = false
	m.textarea.Blur()
}

func (m *CommitModal) IsVisible() bool {
	return m.visible
}

func (m *CommitModal) Value() string {
	return m.textarea.Value()
}

// Height returns the number of terminal rows this component occupies when visible.
func (m *CommitModal) Height() int {
	if !m.visible {
		return 0
	}
	// border(2) + title(1) + blank(1) + textarea + blank(1) + help(1)
	return m.textarea.Height() + 6
}

func (m *CommitModal) SetSize(width, height int) {
	m.width = width
	m.height = height
	taWidth := width - 4
	if taWidth < 20 {
		taWidth = 20
	}
	m.textarea.SetWidth(taWidth)
}
