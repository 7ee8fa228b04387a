package widget

import "github.com/charmbracelet/lipgloss"

// DefaultIndentWidth is the number of columns per depth level.
const DefaultIndentWidth = 2

// Style controls how rows are drawn.
type Style struct {
	Icons          Icons
	IndentWidth    int
	ShowExtensions bool

	File      lipgloss.Style
	Directory lipgloss.Style
	Symlink   lipgloss.Style
	Selected  lipgloss.Style
	Hovered   lipgloss.Style
	Error     lipgloss.Style
	Detail    lipgloss.Style
}

// DefaultStyle returns the standard palette.
func DefaultStyle() Style {
	return Style{
		Icons:          DefaultIcons(),
		IndentWidth:    DefaultIndentWidth,
		ShowExtensions: true,
		File:           lipgloss.NewStyle().Foreground(lipgloss.Color(normalColorCode)),
		Directory:      lipgloss.NewStyle().Foreground(lipgloss.Color(accentColorCode)).Bold(true),
		Symlink:        lipgloss.NewStyle().Foreground(lipgloss.Color(highlightColorCode)).Italic(true),
		Selected:       lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColorCode)).Reverse(true),
		Hovered:        lipgloss.NewStyle().Foreground(lipgloss.Color(highlightColorCode)).Underline(true),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorCode)),
		Detail:         lipgloss.NewStyle().Foreground(lipgloss.Color(dimColorCode)),
	}
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	normalColorCode    = "252" // Light gray
	primaryColorCode   = "205" // Pink/purple
)
