package filetree

import (
	"fmt"
	"os"
	"time"
)

// EnableFileLogging enables logging to a file for debugging.
func (t *Tree) EnableFileLogging(logPath string) error {
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	t.logFile = f
	t.logToFile(fmt.Sprintf("=== Tree Log Started: %s ===", time.Now().Format(time.RFC3339)))
	t.logToFile("Root: " + t.root.entry.Path)
	t.logToFile(fmt.Sprintf("Case-sensitive sort: %v", t.caseSensitive))
	t.logToFile("")

	return nil
}

// CloseLog closes the log file if open.
func (t *Tree) CloseLog() {
	if t.logFile != nil {
		t.logToFile(fmt.Sprintf("\n=== Tree Log Ended: %s ===", time.Now().Format(time.RFC3339)))
		_ = t.logFile.Close()
		t.logFile = nil
	}
}

func (t *Tree) logToFile(message string) {
	if t.logFile != nil {
		timestamp := time.Now().Format("15:04:05.000")
		_, _ = fmt.Fprintf(t.logFile, "[%s] %s\n", timestamp, message)
	}
}
