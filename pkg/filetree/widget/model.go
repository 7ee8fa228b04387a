// Package widget renders a filetree.Tree as a Bubble Tea component.
//
// The model keeps only the tree, the last pointer press and the hovered row.
// Everything on screen is derived from the tree on each View call, and View
// never touches the filesystem; directories are listed inside Update when a
// toggle needs them.
//
// Mouse coordinates are expected relative to the first row of the widget. A
// host that scrolls the widget inside a viewport adds the viewport's offset
// before forwarding the message.
package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/file-tree/pkg/filesystem"
	"github.com/joe/file-tree/pkg/filetree"
)

// Model is the file tree component.
type Model struct {
	tree   *filetree.Tree
	opts   options
	clicks  clickTracker
	hovered string
	width   int
}

// New builds the widget for root. The only error is a *filetree.ConstructionError
// for a root that cannot be stat'd, or a failure to open the log file.
func New(root string, opts ...Option) (Model, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	scanner := o.scanner
	if scanner == nil {
		fsys := o.fsys
		if fsys == nil {
			fsys = filesystem.NewRealFileSystem()
		}

		scanner = filetree.NewFSScanner(fsys,
			filetree.WithHidden(o.showHidden),
			filetree.WithIgnore(o.ignore...),
		)
	}

	tree, err := filetree.New(root, scanner,
		filetree.WithSortCaseSensitive(o.caseSensitive),
		filetree.WithEventEmitter(o.emitter),
	)
	if err != nil {
		return Model{}, err
	}

	if o.logFile != "" {
		if err := tree.EnableFileLogging(o.logFile); err != nil {
			return Model{}, err
		}
	}

	return Model{tree: tree, opts: o}, nil
}

// Tree exposes the underlying model.
func (m Model) Tree() *filetree.Tree {
	return m.tree
}

// KeyMap returns the active bindings, for help views.
func (m Model) KeyMap() KeyMap {
	return m.opts.keys
}

// Rows returns the rows View would draw.
func (m Model) Rows() []Row {
	rows := Rows(m.tree, m.opts.style.ShowExtensions)

	for i := range rows {
		rows[i].Hovered = m.hovered != "" && rows[i].Path == m.hovered
	}

	return rows
}

// Hovered returns the path under the pointer, or "".
func (m Model) Hovered() string {
	return m.hovered
}

// ClearHover drops the hover highlight, e.g. when the pointer leaves the widget.
func (m *Model) ClearHover() {
	m.hovered = ""
}

// SelectedIndex returns the row index of the selection, or -1.
func (m Model) SelectedIndex() int {
	return selectedIndex(m.Rows())
}

// SetWidth truncates rendered rows to width columns; zero disables truncation.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Close releases the debug log, if any.
func (m Model) Close() {
	m.tree.CloseLog()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles pointer presses, pointer motion (hover) and key presses.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View renders the visible rows.
func (m Model) View() string {
	rows := m.Rows()

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, RenderRow(row, m.opts.style))
	}

	if m.width > 0 {
		truncate := lipgloss.NewStyle().MaxWidth(m.width)
		for i, line := range lines {
			lines[i] = truncate.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// ============================================================================
// Pointer handling
// ============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	rows := m.Rows()

	if msg.Action == tea.MouseActionMotion {
		m.hovered = ""
		if msg.Y >= 0 && msg.Y < len(rows) {
			m.hovered = rows[msg.Y].Path
		}

		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y < 0 || msg.Y >= len(rows) {
		return m, nil
	}

	path := rows[msg.Y].Path

	var double bool

	m.clicks, double = m.clicks.press(path, m.opts.clock.Now(), m.opts.doubleClickInterval)
	if double {
		return m, m.activate(path)
	}

	m.tree.Select(path)
	m.tree.Toggle(path)

	return m, m.selectCmd(path)
}

// ============================================================================
// Keyboard handling
// ============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := m.opts.keys
	rows := m.Rows()

	if len(rows) == 0 {
		return m, nil
	}

	current := selectedIndex(rows)

	switch {
	case key.Matches(msg, keys.Up):
		return m.moveTo(rows, max(current-1, 0))
	case key.Matches(msg, keys.Down):
		return m.moveTo(rows, min(current+1, len(rows)-1))
	case key.Matches(msg, keys.First):
		return m.moveTo(rows, 0)
	case key.Matches(msg, keys.Last):
		return m.moveTo(rows, len(rows)-1)
	}

	if current < 0 {
		return m, nil
	}

	row := rows[current]

	switch {
	case key.Matches(msg, keys.Toggle):
		m.tree.Toggle(row.Path)
	case key.Matches(msg, keys.Expand):
		return m.expand(row)
	case key.Matches(msg, keys.Collapse):
		return m.collapse(row)
	case key.Matches(msg, keys.Activate):
		return m, m.activate(row.Path)
	}

	return m, nil
}

func (m Model) expand(row Row) (Model, tea.Cmd) {
	switch row.State {
	case filetree.Collapsed, filetree.Error:
		m.tree.Toggle(row.Path)
	case filetree.Expanded:
		// Already open: step onto the first child.
		rows := m.Rows()
		if next := selectedIndex(rows) + 1; next < len(rows) && rows[next].Depth > row.Depth {
			return m.moveTo(rows, next)
		}
	case filetree.Leaf:
	}

	return m, nil
}

func (m Model) collapse(row Row) (Model, tea.Cmd) {
	if row.State == filetree.Expanded {
		m.tree.Toggle(row.Path)
		return m, nil
	}

	parent, ok := m.tree.Parent(row.Path)
	if !ok {
		return m, nil
	}

	m.tree.Select(parent)

	return m, m.selectCmd(parent)
}

func (m Model) moveTo(rows []Row, index int) (Model, tea.Cmd) {
	path := rows[index].Path
	if rows[index].Selected {
		return m, nil
	}

	m.tree.Select(path)

	return m, m.selectCmd(path)
}

// ============================================================================
// Host messages
// ============================================================================

func (m Model) activate(path string) tea.Cmd {
	if m.opts.onDoubleClick == nil {
		return nil
	}

	fn := m.opts.onDoubleClick

	return func() tea.Msg {
		return fn(path)
	}
}

func (m Model) selectCmd(path string) tea.Cmd {
	if m.opts.onSelect == nil {
		return nil
	}

	fn := m.opts.onSelect

	return func() tea.Msg {
		return fn(path)
	}
}

func selectedIndex(rows []Row) int {
	for i, row := range rows {
		if row.Selected {
			return i
		}
	}

	return -1
}
