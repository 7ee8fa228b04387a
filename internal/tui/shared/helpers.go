package shared

import (
	"fmt"

	"github.com/joe/file-tree/pkg/filetree"
)

// ============================================================================
// Formatting Functions
// These turn tree events and host actions into activity log lines
// ============================================================================

// DescribeEvent formats a tree event for the activity log.
// Events with nothing worth showing return "".
func DescribeEvent(event filetree.Event) string {
	switch e := event.(type) {
	case filetree.ScanStarted:
		return "scanning " + e.Path
	case filetree.ScanCompleted:
		return fmt.Sprintf("listed %s (%s)", e.Path, pluralize(e.Entries, "entry", "entries"))
	case filetree.ScanFailed:
		return fmt.Sprintf("failed %s: %s", e.Path, e.Err.Kind)
	case filetree.NodeToggled:
		return fmt.Sprintf("%s %s", e.State, e.Path)
	case filetree.PathSelected:
		return ""
	default:
		return ""
	}
}

// DescribeActivated formats a double click or enter on a path.
func DescribeActivated(path string) string {
	return "activated " + path
}

// DescribeSelected formats a forwarded selection.
func DescribeSelected(path string) string {
	return "selected " + path
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}

	return fmt.Sprintf("%d %s", n, plural)
}
