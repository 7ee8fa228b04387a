// Package tui hosts the file tree widget in a full-screen terminal program.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-tree/internal/config"
	"github.com/joe/file-tree/internal/tui/screens"
	"github.com/joe/file-tree/internal/tui/shared"
	"github.com/joe/file-tree/pkg/filetree/widget"
)

// AppModel is the top-level model. It starts on the root prompt, or directly on
// the tree when a root was given, and routes screen transitions.
type AppModel struct {
	config        *config.Config
	open          screens.Opener
	treeOptions   []widget.Option
	currentScreen tea.Model
	width         int
	height        int
}

// NewAppModel creates the app. In flag mode the tree is built immediately and a
// construction failure is returned; in interactive mode the prompt comes first.
// treeOptions are passed on to the widget after the configured ones.
func NewAppModel(cfg *config.Config, open screens.Opener, treeOptions ...widget.Option) (AppModel, error) {
	app := AppModel{
		config:      cfg,
		open:        open,
		treeOptions: treeOptions,
	}

	if cfg.InteractiveMode {
		app.currentScreen = *screens.NewPromptScreen(cfg)
		return app, nil
	}

	browse, err := screens.NewBrowseScreen(cfg, open, treeOptions...)
	if err != nil {
		return AppModel{}, err
	}

	app.currentScreen = *browse

	return app, nil
}

// Close releases whatever the current screen holds open.
func (a AppModel) Close() {
	if browse, ok := a.currentScreen.(screens.BrowseScreen); ok {
		browse.Close()
	}
}

// CurrentScreen returns the current screen (for testing)
func (a AppModel) CurrentScreen() tea.Model {
	return a.currentScreen
}

// Picked returns the path activated in --pick mode, or "".
func (a AppModel) Picked() string {
	if browse, ok := a.currentScreen.(screens.BrowseScreen); ok {
		return browse.Picked()
	}

	return ""
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return a.currentScreen.Init()
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case shared.TransitionToBrowseMsg:
		return a.openTree(msg.Root)
	case shared.TransitionToPromptMsg:
		a.Close()
		a.currentScreen = screens.NewPromptScreen(a.config).WithError(msg.Err)
		a = a.forwardSize()

		return a, a.currentScreen.Init()
	}

	var cmd tea.Cmd
	a.currentScreen, cmd = a.currentScreen.Update(msg)

	return a, cmd
}

// View implements tea.Model
func (a AppModel) View() string {
	return a.currentScreen.View()
}

// openTree builds the browse screen for root, falling back to the prompt with
// the construction error when the root cannot be opened.
func (a AppModel) openTree(root string) (tea.Model, tea.Cmd) {
	a.config.Root = root

	browse, err := screens.NewBrowseScreen(a.config, a.open, a.treeOptions...)
	if err != nil {
		a.currentScreen = screens.NewPromptScreen(a.config).WithError(err)
		return a.forwardSize(), nil
	}

	a.currentScreen = *browse

	a = a.forwardSize()

	return a, a.currentScreen.Init()
}

// forwardSize replays the last window size to a freshly created screen.
func (a AppModel) forwardSize() AppModel {
	if a.width > 0 && a.height > 0 {
		a.currentScreen, _ = a.currentScreen.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}

	return a
}
