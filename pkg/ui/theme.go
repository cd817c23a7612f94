package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and base styles of the view. Styles are created
// through Renderer so that tests can render without a terminal.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Cursor   lipgloss.Style // row under the keyboard cursor
	Selected lipgloss.Style // rows in the selection
	Active   lipgloss.Style // hovered row
	DropOK   lipgloss.Style // drop target that accepts the dragged node
	DropBad  lipgloss.Style // drop target that refuses it
	Status   lipgloss.Style
}

// DefaultTheme returns the Dracula-flavored default theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Success:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"})
	t.Cursor = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E8E0FF", Dark: "#44475A"}).
		Bold(true)
	t.Selected = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Active = r.NewStyle().Underline(true)
	t.DropOK = r.NewStyle().Foreground(t.Success).Bold(true)
	t.DropBad = r.NewStyle().Foreground(t.Danger).Strikethrough(true)
	t.Status = r.NewStyle().Foreground(t.Subtext).Padding(0, 1)
	return t
}
