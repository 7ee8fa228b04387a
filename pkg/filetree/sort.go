package filetree

import (
	"slices"
	"strings"
)

// sortEntries orders directories before files, then by name. Case-insensitive
// ordering falls back to the raw name so the order stays total.
func sortEntries(entries []Entry, caseSensitive bool) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}

			return 1
		}

		if !caseSensitive {
			if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
		}

		return strings.Compare(a.Name, b.Name)
	})
}
