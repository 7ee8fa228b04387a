package screens_test

import (
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-tree/internal/config"
	"github.com/joe/file-tree/internal/tui/screens"
	"github.com/joe/file-tree/pkg/filesystem"
	"github.com/joe/file-tree/pkg/filetree/widget"
)

// scenarioFS holds /root with A/c.txt and b.txt.
func scenarioFS() *filesystem.MockFileSystem {
	fsys := filesystem.NewMockFileSystem()
	now := time.Now()

	fsys.AddDir("/root/A", now)
	fsys.AddFile("/root/A/c.txt", []byte("c"), now)
	fsys.AddFile("/root/b.txt", []byte("b"), now)

	return fsys
}

// mockOpener serves every root from fsys without connecting anywhere.
func mockOpener(fsys filesystem.FileSystem, closed *int) screens.Opener {
	return func(root string, _ filesystem.ConnectOptions) (filesystem.FileSystem, string, func(), error) {
		return fsys, root, func() {
			if closed != nil {
				*closed++
			}
		}, nil
	}
}

func failingOpener(err error) screens.Opener {
	return func(string, filesystem.ConnectOptions) (filesystem.FileSystem, string, func(), error) {
		return nil, "", nil, err
	}
}

func testConfig(root string) *config.Config {
	cfg := config.Defaults()
	cfg.Root = root

	return cfg
}

func newBrowse(cfg *config.Config, fsys filesystem.FileSystem, opts ...widget.Option) screens.BrowseScreen {
	screen, err := screens.NewBrowseScreen(cfg, mockOpener(fsys, nil), opts...)
	if err != nil {
		panic(err)
	}

	return *screen
}

func update(model tea.Model, msg tea.Msg) (screens.BrowseScreen, tea.Cmd) {
	next, cmd := model.Update(msg)
	return next.(screens.BrowseScreen), cmd //nolint:forcetypeassert // Test helper
}

func leftPress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func treeLabels(screen screens.BrowseScreen) []string {
	var labels []string
	for _, row := range screen.Tree().Rows() {
		labels = append(labels, row.Label)
	}

	return labels
}

func mkdirAll(path string) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		panic(err)
	}
}

// stripANSI removes ANSI escape codes from a string for easier testing
func stripANSI(s string) string {
	var cleaned strings.Builder

	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++

			continue
		}

		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}

			continue
		}

		cleaned.WriteByte(s[i])
	}

	return cleaned.String()
}
