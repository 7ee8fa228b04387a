// Package main is the entry point for the file-tree application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/file-tree/internal/config"
	"github.com/joe/file-tree/internal/tui"
	"github.com/joe/file-tree/pkg/filesystem"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// In flag mode a root that cannot be opened is fatal; the prompt re-asks instead.
	model, err := tui.NewAppModel(cfg, filesystem.Open)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}

	// Only use alt screen if stdout is a TTY
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	} else {
		// Keep stdout clean for --pick; draw on the terminal we were started from.
		opts = append(opts, tea.WithOutput(os.Stderr))
	}

	final, err := tea.NewProgram(model, opts...).Run()

	app, ok := final.(tui.AppModel)
	if ok {
		app.Close()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if ok && app.Picked() != "" {
		fmt.Println(app.Picked())
	}
}
