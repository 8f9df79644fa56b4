package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds the small set of chrome styles shared across components that
// aren't the graph panel itself (which renders every cell from Theme
// directly, since lane color depends on per-row rail data lipgloss.Style
// can't express statically).
type Styles struct {
	Theme        Theme
	PanelFocused lipgloss.Style
	Title        lipgloss.Style
	StatusBar    lipgloss.Style
	BranchName   lipgloss.Style
	Help         lipgloss.Style
}

func NewStyles(theme Theme) *Styles {
	return &Styles{
		Theme: theme,
		PanelFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Head).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Subtext).
			Background(theme.Selection).
			Padding(0, 1),
		BranchName: lipgloss.NewStyle().
			Foreground(theme.BranchFeature).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(theme.Subtext),
	}
}
