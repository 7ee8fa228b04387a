package widget

import (
	"path/filepath"
	"strings"

	"github.com/joe/file-tree/pkg/filetree"
)

// Row is the display data for one visible node.
type Row struct {
	Depth     int
	Path      string
	Label     string
	Icon      IconKind
	State     filetree.State
	Symlink   bool
	Directory bool
	Selected  bool
	Hovered   bool
	Detail    string
}

// Rows flattens the visible part of tree into display rows. It reads the tree only.
func Rows(tree *filetree.Tree, showExtensions bool) []Row {
	selected, hasSelection := tree.Selected()

	var rows []Row

	for depth, node := range tree.VisibleRows() {
		entry := node.Entry()

		row := Row{
			Depth:     depth,
			Path:      entry.Path,
			Label:     displayName(entry, showExtensions),
			Icon:      iconFor(node),
			State:     node.State(),
			Symlink:   entry.IsSymlink,
			Directory: entry.IsDir,
			Selected:  hasSelection && selected == entry.Path,
		}

		if scanErr := node.Err(); scanErr != nil {
			row.Detail = scanErr.Kind.String()
		}

		rows = append(rows, row)
	}

	return rows
}

// Render draws every visible row as one line of text.
func Render(tree *filetree.Tree, style Style) []string {
	rows := Rows(tree, style.ShowExtensions)
	lines := make([]string, 0, len(rows))

	for _, row := range rows {
		lines = append(lines, RenderRow(row, style))
	}

	return lines
}

// RenderRow draws a single row.
func RenderRow(row Row, style Style) string {
	var builder strings.Builder

	builder.WriteString(strings.Repeat(" ", row.Depth*style.IndentWidth))
	builder.WriteString(style.Icons.Glyph(row.Icon))
	builder.WriteString(" ")

	label := row.Label

	switch {
	case row.Selected:
		label = style.Selected.Render(label)
	case row.Hovered:
		label = style.Hovered.Render(label)
	case row.State == filetree.Error:
		label = style.Error.Render(label)
	case row.Symlink:
		label = style.Symlink.Render(label)
	case row.Directory:
		label = style.Directory.Render(label)
	default:
		label = style.File.Render(label)
	}

	builder.WriteString(label)

	if row.Detail != "" {
		builder.WriteString(" ")
		builder.WriteString(style.Detail.Render("(" + row.Detail + ")"))
	}

	return builder.String()
}

func iconFor(node *filetree.Node) IconKind {
	switch node.State() {
	case filetree.Error:
		return IconError
	case filetree.Expanded:
		return IconDirOpen
	case filetree.Collapsed:
		return IconDirClosed
	case filetree.Leaf:
		if node.Entry().IsDir {
			return IconDirOpen
		}
	}

	return IconFile
}

func displayName(entry filetree.Entry, showExtensions bool) string {
	if showExtensions || entry.IsDir {
		return entry.Name
	}

	stem := strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name))
	if stem == "" {
		return entry.Name
	}

	return stem
}
