package keys

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Quit        []string
	Help        []string
	Commit      []string
	Push        []string
	Pull        []string
	Fetch       []string
	Branch      []string
	Up          []string
	Down        []string
	Left        []string
	Right       []string
	Top         []string
	Bottom      []string
	PageUp      []string
	PageDown    []string
	Enter       []string
	CopyHash    []string
	CopyMessage []string
	CopyDiff    []string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        []string{"q", "ctrl+c"},
		Help:        []string{"?"},
		Commit:      []string{"c"},
		Push:        []string{"p"},
		Pull:        []string{"P"},
		Fetch:       []string{"f"},
		Branch:      []string{"b"},
		Up:          []string{"k", "up"},
		Down:        []string{"j", "down"},
		Left:        []string{"h", "left"},
		Right:       []string{"l", "right"},
		Top:         []string{"g", "home"},
		Bottom:      []string{"G", "end"},
		PageUp:      []string{"ctrl+u"},
		PageDown:    []string{"ctrl+d"},
		Enter:       []string{"enter"},
		CopyHash:    []string{"y"},
		CopyMessage: []string{"Y"},
		CopyDiff:    []string{"ctrl+y"},
	}
}

// Keybindings mirrors config.KeybindingsConfig without importing the config
// package, keeping this package dependency-free.
type Keybindings struct {
	Quit        []string
	Help        []string
	Commit      []string
	Push        []string
	Pull        []string
	Fetch       []string
	Branch      []string
	Up          []string
	Down        []string
	Left        []string
	Right       []string
	Top         []string
	Bottom      []string
	PageUp      []string
	PageDown    []string
	Enter       []string
	CopyHash    []string
	CopyMessage []string
	CopyDiff    []string
}

// FromConfig builds a KeyMap from user configuration, falling back to the
// default binding for any action the user left empty.
func FromConfig(cfg Keybindings) KeyMap {
	km := DefaultKeyMap()
	override := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	override(&km.Quit, cfg.Quit)
	override(&km.Help, cfg.Help)
	override(&km.Commit, cfg.Commit)
	override(&km.Push, cfg.Push)
	override(&km.Pull, cfg.Pull)
	override(&km.Fetch, cfg.Fetch)
	override(&km.Branch, cfg.Branch)
	override(&km.Up, cfg.Up)
	override(&km.Down, cfg.Down)
	override(&km.Left, cfg.Left)
	override(&km.Right, cfg.Right)
	override(&km.Top, cfg.Top)
	override(&km.Bottom, cfg.Bottom)
	override(&km.PageUp, cfg.PageUp)
	override(&km.PageDown, cfg.PageDown)
	override(&km.Enter, cfg.Enter)
	override(&km.CopyHash, cfg.CopyHash)
	override(&km.CopyMessage, cfg.CopyMessage)
	override(&km.CopyDiff, cfg.CopyDiff)
	return km
}

func MatchesKey(msg tea.KeyMsg, keys []string) bool {
	for _, key := range keys {
		if msg.String() == key {
			return true
		}
	}
	return false
}
