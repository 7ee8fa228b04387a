package shared

import (
	"strings"
	"time"
)

// DefaultActivityLimit is how many entries an ActivityLog retains.
const DefaultActivityLimit = 200

// ActivityLog is a bounded, timestamped list of things that happened in the tree.
// The zero value is not usable; call NewActivityLog.
type ActivityLog struct {
	entries []string
	limit   int
	now     func() time.Time
}

// NewActivityLog creates a log that keeps the most recent limit entries.
// A nil now uses time.Now.
func NewActivityLog(limit int, now func() time.Time) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	if now == nil {
		now = time.Now
	}

	return &ActivityLog{limit: limit, now: now}
}

// Add appends a "15:04:05 msg" entry, dropping the oldest past the limit.
func (l *ActivityLog) Add(msg string) {
	l.entries = append(l.entries, l.now().Format("15:04:05")+" "+msg)

	if overflow := len(l.entries) - l.limit; overflow > 0 {
		l.entries = l.entries[overflow:]
	}
}

// Entries returns the retained entries, oldest first.
func (l *ActivityLog) Entries() []string {
	return l.entries
}

// Len reports the number of retained entries.
func (l *ActivityLog) Len() int {
	return len(l.entries)
}

// RenderActivityLog renders a chronological activity log with optional title.
// If maxEntries > 0, only the most recent maxEntries are shown.
func RenderActivityLog(title string, entries []string, maxEntries int) string {
	var builder strings.Builder

	if trimmed := strings.TrimSpace(title); trimmed != "" {
		builder.WriteString(RenderLabel(trimmed))
		builder.WriteString("\n")
	}

	if len(entries) == 0 {
		builder.WriteString(RenderDim("  (nothing yet)"))
		return builder.String()
	}

	start := 0
	if maxEntries > 0 && maxEntries < len(entries) {
		start = len(entries) - maxEntries
	}

	lines := make([]string, 0, len(entries)-start)
	for _, entry := range entries[start:] {
		lines = append(lines, "  "+entry)
	}

	builder.WriteString(strings.Join(lines, "\n"))

	return builder.String()
}
