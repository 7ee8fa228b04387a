package shared

import "github.com/charmbracelet/lipgloss"

// treeColumnShare is the fraction of the width given to the tree.
const treeColumnShare = 0.6

// ColumnWidths splits width between the tree and the side panel, 60-40.
func ColumnWidths(width int) (left, right int) {
	left = int(float64(width) * treeColumnShare)
	return left, width - left
}

// RenderTwoColumnLayout renders content in two columns with 60-40 width split.
// Columns are joined horizontally, aligned at the top, and cut to height lines.
func RenderTwoColumnLayout(leftContent, rightContent string, width, height int) string {
	leftWidth, rightWidth := ColumnWidths(width)

	leftStyle := lipgloss.NewStyle().Width(leftWidth).Height(height).MaxHeight(height)
	rightStyle := lipgloss.NewStyle().Width(rightWidth).Height(height).MaxHeight(height)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(leftContent),
		rightStyle.Render(rightContent),
	)
}

// RenderWidgetBox renders content in a titled box with borders.
// Width accounts for padding (width - 4 for borders and padding).
func RenderWidgetBox(title, content string, width int) string {
	const widthOverhead = 4 // Account for borders (2) and padding (2)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor())
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(0, 1).
		Width(max(width-widthOverhead, 1))

	return boxStyle.Render(titleStyle.Render(title) + "\n" + content)
}
