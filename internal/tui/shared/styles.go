package shared

import "github.com/charmbracelet/lipgloss"

// Exported constants organized by category for clarity.
const (
	// ============================================================================
	// UI Layout & Display
	// ============================================================================

	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// MinInputWidth is the narrowest the root prompt input gets
	MinInputWidth = 20
	// InputWidthMargin is subtracted from the window width for the prompt input
	InputWidthMargin = 10
	// MaxCompletionsShown is how many path completions are listed at once
	MaxCompletionsShown = 8
	// SeparatorWidth is the width of the rule above the completion list
	SeparatorWidth = 40

	// ============================================================================
	// Keys & Symbols
	// ============================================================================

	// KeyCtrlC is the key binding for cancellation
	KeyCtrlC = "ctrl+c"
)

// PromptArrow is the arrow drawn in front of the focused input.
func PromptArrow() string {
	return "▶ "
}

// ============================================================================
// Colors
// ============================================================================

func AccentColor() lipgloss.Color { return lipgloss.Color(accentColorCode) }

func DimColor() lipgloss.Color { return lipgloss.Color(dimColorCode) }

func ErrorColor() lipgloss.Color { return lipgloss.Color(errorColorCode) }

func HighlightColor() lipgloss.Color { return lipgloss.Color(highlightColorCode) }

func NormalColor() lipgloss.Color { return lipgloss.Color(normalColorCode) }

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.Color { return lipgloss.Color(primaryColorCode) }

func SubtleColor() lipgloss.Color { return lipgloss.Color(subtleColorCode) }

func SuccessColor() lipgloss.Color { return lipgloss.Color(successColorCode) }

func WarningColor() lipgloss.Color { return lipgloss.Color(warningColorCode) }

// ============================================================================
// Box and Container Styles
// ============================================================================

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(1, DefaultPadding)
}

// ============================================================================
// Completion Styles (for path completion)
// ============================================================================

// CompletionStyle returns the style for completion items
func CompletionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(NormalColor())
}

// CompletionSelectedStyle returns the style for selected completion items
func CompletionSelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

// ============================================================================
// Text Styles
// ============================================================================

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DimColor())
}

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor()).
		Bold(true)
}

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

// PathStyle returns the style for paths named in headers and errors
func PathStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(NormalColor()).
		Underline(true)
}

// SubtitleStyle returns the style for subtitles
func SubtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SubtleColor())
}

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor()).
		Bold(true)
}

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor())
}

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor()).
		Bold(true)
}

// ============================================================================
// Helper Functions
// ============================================================================

// ErrorSymbol marks an error line.
func ErrorSymbol() string {
	return ErrorStyle().Render("✗")
}

// RenderBox renders content in a box with consistent styling
func RenderBox(content string) string {
	return BoxStyle().Render(content)
}

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderPath renders a path with consistent styling
func RenderPath(text string) string {
	return PathStyle().Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	normalColorCode    = "252" // Light gray
	primaryColorCode   = "205" // Pink/purple
	subtleColorCode    = "241" // Medium gray
	successColorCode   = "42"  // Green
	warningColorCode   = "226" // Yellow
)
