package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are checked in order, so a message naming both a cycle and a
// missing path is reported as a cycle.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		rules: []categoryPatterns{
			{CategoryCycle, []string{
				"symlink cycle",
				"too many levels of symbolic links",
				"too many links",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"access is denied",
				"operation not permitted",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"file does not exist",
				"file not found",
				"path does not exist",
				"cannot find the path",
			}},
			{CategoryIO, []string{
				"input/output error",
				"i/o error",
				"i/o timeout",
				"connection lost",
				"not a directory",
			}},
		},
	}
}

type categoryPatterns struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	rules []categoryPatterns
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}
