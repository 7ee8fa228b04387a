package screens

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/go-homedir"

	"github.com/joe/file-tree/internal/config"
	"github.com/joe/file-tree/internal/tui/shared"
)

const sftpPrefix = "sftp://"

// PromptScreen asks for the tree root when none was given on the command line.
type PromptScreen struct {
	config          *config.Config
	rootInput       textinput.Model
	completions     []string
	completionIndex int
	showCompletions bool
	validationError string
}

// NewPromptScreen creates a new root prompt
func NewPromptScreen(cfg *config.Config) *PromptScreen {
	rootInput := textinput.New()
	rootInput.Placeholder = "~/src or sftp://user@host/path"
	rootInput.Prompt = shared.PromptArrow()
	rootInput.SetValue(cfg.Root)
	rootInput.CursorEnd()
	rootInput.Focus()

	return &PromptScreen{
		config:    cfg,
		rootInput: rootInput,
	}
}

// WithError returns the prompt showing err, e.g. after the tree could not be built.
func (s PromptScreen) WithError(err error) PromptScreen {
	if err != nil {
		s.validationError = err.Error()
	}

	return s
}

// ValidationError returns the message currently shown (for testing).
func (s PromptScreen) ValidationError() string {
	return s.validationError
}

// Value returns the text typed so far.
func (s PromptScreen) Value() string {
	return s.rootInput.Value()
}

// Init implements tea.Model
func (s PromptScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s PromptScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.rootInput.Width = max(msg.Width-shared.InputWidthMargin, shared.MinInputWidth)
		return s, nil
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	s.rootInput, cmd = s.rootInput.Update(msg)

	return s, cmd
}

// View implements tea.Model
func (s PromptScreen) View() string {
	content := shared.RenderTitle("file-tree") + "\n\n" +
		shared.RenderSubtitle("Which directory should the tree start at?") + "\n\n" +
		shared.RenderLabel("Root:") + "\n" +
		s.rootInput.View() + "\n"

	if s.showCompletions && len(s.completions) > 0 {
		content += formatCompletionList(s.completions, s.completionIndex) + "\n"
	}

	if s.validationError != "" {
		content += "\n" + shared.RenderError("Error: "+s.validationError) + "\n"
	}

	content += "\n" +
		shared.RenderSubtitle("Tab/Shift+Tab to cycle • → to accept & continue • Enter to open • Esc to clear • Ctrl+C to exit")

	return shared.RenderBox(content)
}

// ============================================================================
// Message Handlers
// ============================================================================

func (s PromptScreen) handleEnter() (tea.Model, tea.Cmd) {
	s.showCompletions = false

	s.config.Root = strings.TrimSpace(s.rootInput.Value())
	if err := s.config.ValidateRoot(); err != nil {
		s.validationError = err.Error()
		return s, nil
	}

	root := s.config.Root

	return s, func() tea.Msg {
		return shared.TransitionToBrowseMsg{Root: root}
	}
}

func (s PromptScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return s, tea.Quit
	case tea.KeyEsc:
		s.rootInput.SetValue("")
		s.showCompletions = false
		s.validationError = ""

		return s, nil
	case tea.KeyTab:
		return s.handleTabCompletion(), nil
	case tea.KeyShiftTab:
		return s.handleShiftTabCompletion(), nil
	case tea.KeyRight:
		if s.showCompletions && len(s.completions) > 0 {
			return s.handleRightArrow(), nil
		}
	case tea.KeyEnter:
		return s.handleEnter()
	default:
	}

	s.showCompletions = false
	s.validationError = ""

	var cmd tea.Cmd
	s.rootInput, cmd = s.rootInput.Update(msg)

	return s, cmd
}

// ============================================================================
// Path Completion
// ============================================================================

func (s PromptScreen) applyCompletion(completion string) PromptScreen {
	s.rootInput.SetValue(completion)
	s.rootInput.CursorEnd()

	return s
}

// handleRightArrow accepts the highlighted completion and offers the next level.
func (s PromptScreen) handleRightArrow() PromptScreen {
	current := s.completions[s.completionIndex]
	s = s.applyCompletion(current)
	s.showCompletions = false

	s.completions = getPathCompletions(current)
	if len(s.completions) > 0 {
		s.completionIndex = 0
		s.showCompletions = true
		s = s.applyCompletion(s.completions[0])
	}

	return s
}

func (s PromptScreen) handleShiftTabCompletion() PromptScreen {
	if s.showCompletions && len(s.completions) > 0 {
		s.completionIndex--
		if s.completionIndex < 0 {
			s.completionIndex = len(s.completions) - 1
		}

		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

func (s PromptScreen) handleTabCompletion() PromptScreen {
	if !s.showCompletions {
		s.completions = getPathCompletions(s.rootInput.Value())
		s.completionIndex = 0
		s.showCompletions = true

		// A single match is completed immediately.
		if len(s.completions) == 1 {
			s = s.applyCompletion(s.completions[0])
			s.showCompletions = false
		}
	} else if len(s.completions) > 0 {
		s.completionIndex = (s.completionIndex + 1) % len(s.completions)
		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

// ============================================================================
// Rendering
// ============================================================================

func formatCompletionList(completions []string, currentIndex int) string {
	if len(completions) == 0 {
		return ""
	}

	if len(completions) == 1 {
		return shared.CompletionStyle().Render("  → " + getBaseName(completions[0]))
	}

	lines := []string{shared.CompletionStyle().Render("  " + strings.Repeat("─", shared.SeparatorWidth))}

	start, end := completionWindow(currentIndex, shared.MaxCompletionsShown, len(completions))

	if start > 0 {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	for i := start; i < end; i++ {
		base := getBaseName(completions[i])
		if i == currentIndex {
			lines = append(lines, shared.CompletionSelectedStyle().Render("  ▶ "+base))
		} else {
			lines = append(lines, shared.CompletionStyle().Render("    "+base))
		}
	}

	if end < len(completions) {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	return strings.Join(lines, "\n")
}

// completionWindow centers the visible slice of completions on currentIndex.
func completionWindow(currentIndex, maxShow, totalCount int) (start, end int) {
	start = max(currentIndex-maxShow/2, 0)

	end = start + maxShow
	if end > totalCount {
		end = totalCount
		start = max(end-maxShow, 0)
	}

	return start, end
}

// ============================================================================
// Path Completion Helpers
// ============================================================================

func expandHomePath(input string) string {
	if input == "" {
		return "." + string(filepath.Separator)
	}

	expanded, err := homedir.Expand(input)
	if err != nil {
		return input
	}

	return expanded
}

func getBaseName(path string) string {
	trimmed := strings.TrimSuffix(path, "/")

	base := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		base = trimmed[idx+1:]
	}

	if strings.HasSuffix(path, "/") {
		return base + "/"
	}

	return base
}

// getPathCompletions lists local directory entries that extend input.
// Remote roots are not completed.
func getPathCompletions(input string) []string {
	if strings.HasPrefix(input, sftpPrefix) {
		return nil
	}

	input = expandHomePath(input)
	dir, prefix := parseCompletionPath(input)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	completions := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if !shouldIncludeEntry(name, prefix) {
			continue
		}

		fullPath := filepath.Join(dir, name)

		if entry.IsDir() {
			fullPath += string(filepath.Separator)
		}

		completions = append(completions, fullPath)
	}

	sort.Strings(completions)

	return completions
}

func parseCompletionPath(input string) (dir, prefix string) {
	if strings.HasSuffix(input, string(filepath.Separator)) {
		return input, ""
	}

	return filepath.Dir(input), filepath.Base(input)
}

func shouldIncludeEntry(name, prefix string) bool {
	// Hidden entries only when the prefix asks for them.
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
		return false
	}

	return prefix == "" || strings.HasPrefix(name, prefix)
}
