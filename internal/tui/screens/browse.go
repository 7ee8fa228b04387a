package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-tree/internal/config"
	"github.com/joe/file-tree/internal/tui/shared"
	"github.com/joe/file-tree/pkg/filesystem"
	"github.com/joe/file-tree/pkg/filetree"
	"github.com/joe/file-tree/pkg/filetree/widget"
)

// Layout of the browse screen, top to bottom: title, blank line, tree and
// side panel, blank line, help line.
const (
	browseHeaderLines = 2
	browseFooterLines = 1
	defaultWidth      = 80
	defaultHeight     = 24
	wheelStep         = 3
	sideLogEntries    = 12
)

// Opener opens the filesystem behind a root; filesystem.Open is the real one.
type Opener func(root string, opts filesystem.ConnectOptions) (filesystem.FileSystem, string, func(), error)

// BrowseScreen shows the file tree with an activity log and error advice.
type BrowseScreen struct {
	config   *config.Config
	root     string
	tree     widget.Model
	closer   func()
	bridge   *shared.EventBridge
	activity *shared.ActivityLog
	viewport viewport.Model
	help     help.Model
	keys     browseKeys
	width    int
	height   int
	picked   string
}

// NewBrowseScreen opens cfg.Root and builds the tree. Extra options are applied
// after the ones derived from cfg. A root that cannot be stat'd yields a
// *filetree.ConstructionError.
func NewBrowseScreen(cfg *config.Config, open Opener, extra ...widget.Option) (*BrowseScreen, error) {
	fsys, base, closer, err := open(cfg.Root, cfg.ConnectOptions())
	if err != nil {
		return nil, err
	}

	bridge := shared.NewEventBridge()

	opts := []widget.Option{
		widget.WithFileSystem(fsys),
		widget.ShowHidden(cfg.ShowHidden),
		widget.SortCaseSensitive(!cfg.CaseInsensitive),
		widget.ShowExtensions(!cfg.NoExtensions),
		widget.Ignore(cfg.Ignore...),
		widget.WithIcons(IconsFor(cfg.Icons)),
		widget.WithEventEmitter(bridge),
		widget.LogFile(cfg.LogPath),
		widget.OnDoubleClick(func(path string) tea.Msg {
			return shared.ActivatedMsg{Path: path}
		}),
	}

	if interval := cfg.DoubleClickInterval(); interval > 0 {
		opts = append(opts, widget.DoubleClickInterval(interval))
	}

	if cfg.ForwardSelect {
		opts = append(opts, widget.OnSelect(func(path string) tea.Msg {
			return shared.SelectedMsg{Path: path}
		}))
	}

	tree, err := widget.New(base, append(opts, extra...)...)
	if err != nil {
		bridge.Close()
		closer()

		return nil, err
	}

	screen := &BrowseScreen{
		config:   cfg,
		root:     cfg.Root,
		tree:     tree,
		closer:   closer,
		bridge:   bridge,
		activity: shared.NewActivityLog(shared.DefaultActivityLimit, nil),
		viewport: viewport.New(defaultWidth, defaultHeight),
		help:     help.New(),
		keys:     newBrowseKeys(tree.KeyMap()),
	}
	screen.resize(defaultWidth, defaultHeight)

	return screen, nil
}

// IconsFor maps the configured icon set onto the widget's glyphs.
func IconsFor(set config.IconSet) widget.Icons {
	switch set {
	case config.IconsASCII:
		return widget.ASCIIIcons()
	case config.IconsNerdFont:
		return widget.NerdFontIcons()
	case config.IconsUnicode:
		return widget.DefaultIcons()
	default:
		return widget.DefaultIcons()
	}
}

// Activity returns the activity log entries (for testing).
func (s BrowseScreen) Activity() []string {
	return s.activity.Entries()
}

// Close releases the event bridge, the debug log and any SFTP connection.
func (s BrowseScreen) Close() {
	s.tree.Close()
	s.bridge.Close()

	if s.closer != nil {
		s.closer()
	}
}

// Picked returns the path activated in --pick mode, or "".
func (s BrowseScreen) Picked() string {
	return s.picked
}

// Tree returns the tree widget (for testing).
func (s BrowseScreen) Tree() widget.Model {
	return s.tree
}

// Init implements tea.Model
func (s BrowseScreen) Init() tea.Cmd {
	return s.bridge.ListenCmd()
}

// Update implements tea.Model
func (s BrowseScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil
	case tea.MouseMsg:
		return s.handleMouse(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	case shared.TreeEventMsg:
		if line := shared.DescribeEvent(msg.Event); line != "" {
			s.activity.Add(line)
		}

		return s, s.bridge.ListenCmd()
	case shared.ActivatedMsg:
		s.activity.Add(shared.DescribeActivated(msg.Path))

		if s.config.Pick {
			s.picked = msg.Path
			return s, tea.Quit
		}

		return s, nil
	case shared.SelectedMsg:
		s.activity.Add(shared.DescribeSelected(msg.Path))
		return s, nil
	}

	return s, nil
}

// View implements tea.Model
func (s BrowseScreen) View() string {
	treeWidth, panelWidth := shared.ColumnWidths(s.width)

	s.viewport.SetContent(s.tree.View())

	header := shared.RenderTitle("file-tree") + "  " + shared.RenderPath(s.root)
	body := shared.RenderTwoColumnLayout(
		s.viewport.View(),
		s.renderPanel(panelWidth),
		treeWidth+panelWidth,
		s.viewport.Height,
	)

	return header + "\n\n" + body + "\n\n" + s.help.View(s.keys)
}

// ============================================================================
// Message Handlers
// ============================================================================

func (s BrowseScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Quit):
		return s, tea.Quit
	case key.Matches(msg, s.keys.Reopen):
		return s, func() tea.Msg {
			return shared.TransitionToPromptMsg{}
		}
	case key.Matches(msg, s.keys.Help):
		s.help.ShowAll = !s.help.ShowAll
		s.resize(s.width, s.height)

		return s, nil
	}

	var cmd tea.Cmd

	s.tree, cmd = s.tree.Update(msg)
	s.scrollToSelection()

	return s, cmd
}

// handleMouse scrolls on the wheel and forwards presses and motion inside the
// tree column, translated to the widget's own row numbering. Motion anywhere
// else clears the hover highlight.
func (s BrowseScreen) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		s.scrollBy(-wheelStep)
		return s, nil
	case tea.MouseButtonWheelDown:
		s.scrollBy(wheelStep)
		return s, nil
	default:
	}

	treeWidth, _ := shared.ColumnWidths(s.width)
	line := msg.Y - browseHeaderLines

	if msg.X >= treeWidth || line < 0 || line >= s.viewport.Height {
		if msg.Action == tea.MouseActionMotion {
			s.tree.ClearHover()
		}

		return s, nil
	}

	msg.Y = line + s.viewport.YOffset

	var cmd tea.Cmd

	s.tree, cmd = s.tree.Update(msg)
	s.syncContent()

	return s, cmd
}

// ============================================================================
// Layout
// ============================================================================

func (s *BrowseScreen) resize(width, height int) {
	s.width = width
	s.height = height
	s.help.Width = width

	helpLines := strings.Count(s.help.View(s.keys), "\n") + 1
	treeWidth, _ := shared.ColumnWidths(width)

	s.viewport.Width = treeWidth
	s.viewport.Height = max(height-browseHeaderLines-browseFooterLines-helpLines, 1)
	s.tree.SetWidth(treeWidth)
	s.syncContent()
}

// syncContent refreshes the viewport lines so offsets clamp against the
// current row count.
func (s *BrowseScreen) syncContent() {
	s.viewport.SetContent(s.tree.View())
}

func (s *BrowseScreen) scrollBy(delta int) {
	s.syncContent()
	s.viewport.SetYOffset(s.viewport.YOffset + delta)
}

func (s *BrowseScreen) scrollToSelection() {
	s.syncContent()

	index := s.tree.SelectedIndex()
	if index < 0 {
		return
	}

	switch {
	case index < s.viewport.YOffset:
		s.viewport.SetYOffset(index)
	case index >= s.viewport.YOffset+s.viewport.Height:
		s.viewport.SetYOffset(index - s.viewport.Height + 1)
	}
}

func (s BrowseScreen) renderPanel(width int) string {
	var sections []string

	if path, ok := s.tree.Tree().Selected(); ok {
		sections = append(sections, shared.RenderLabel("Selected")+"\n  "+shared.RenderDim(path))

		if node, found := s.tree.Tree().Lookup(path); found && node.State() == filetree.Error && node.Err() != nil {
			sections = append(sections, shared.RenderNodeError(path, node.Err(), width))
		}
	}

	sections = append(sections,
		shared.RenderActivityLog("Activity", s.activity.Entries(), sideLogEntries))

	return strings.Join(sections, "\n\n")
}

// ============================================================================
// Key bindings
// ============================================================================

// browseKeys adds the host's own keys to the tree's bindings for the help line.
type browseKeys struct {
	tree   widget.KeyMap
	Reopen key.Binding
	Quit   key.Binding
	Help   key.Binding
}

func newBrowseKeys(tree widget.KeyMap) browseKeys {
	return browseKeys{
		tree: tree,
		Reopen: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open root"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", shared.KeyCtrlC),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k browseKeys) ShortHelp() []key.Binding {
	return append(k.tree.ShortHelp(), k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k browseKeys) FullHelp() [][]key.Binding {
	return append(k.tree.FullHelp(), []key.Binding{k.Reopen, k.Help, k.Quit})
}
