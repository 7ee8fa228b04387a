package shared

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/joe/file-tree/pkg/errors"
	"github.com/joe/file-tree/pkg/filetree"
)

// categoryByKind maps scan failures straight onto advice categories, so a bare
// "not found" from a remote server still gets path suggestions.
//
//nolint:gochecknoglobals // Lookup table
var categoryByKind = map[filetree.ScanErrorKind]errors.ErrorCategory{
	filetree.IOError:          errors.CategoryIO,
	filetree.PermissionDenied: errors.CategoryPermission,
	filetree.NotFound:         errors.CategoryPath,
	filetree.Cycle:            errors.CategoryCycle,
}

// EnrichNodeError turns the error held by an Error node into an ActionableError.
func EnrichNodeError(path string, err error) errors.ActionableError {
	var scanErr *filetree.ScanError
	if stderrors.As(err, &scanErr) {
		if category, ok := categoryByKind[scanErr.Kind]; ok {
			return errors.NewActionableError(
				scanErr.Error(),
				category,
				errors.NewSuggestionGenerator().Generate(category, path),
				path,
			)
		}
	}

	enriched := errors.NewEnricher().Enrich(err, path)

	var actionable errors.ActionableError
	if stderrors.As(enriched, &actionable) {
		return actionable
	}

	return errors.NewActionableError(err.Error(), errors.CategoryUnknown, nil, path)
}

// RenderNodeError renders an error node's path, message and suggestions.
// Messages longer than maxWidth are truncated; zero disables truncation.
func RenderNodeError(path string, err error, maxWidth int) string {
	if err == nil {
		return ""
	}

	const ellipsis = "..."

	enriched := EnrichNodeError(path, err)

	var builder strings.Builder

	fmt.Fprintf(&builder, "%s %s\n", ErrorSymbol(), RenderPath(path))

	msg := enriched.Error()
	if maxWidth > len(ellipsis) {
		msg = ansi.Truncate(msg, maxWidth, ellipsis)
	}

	fmt.Fprintf(&builder, "  %s", RenderError(msg))

	if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
		builder.WriteString("\n")
		builder.WriteString(strings.ReplaceAll(suggestions, "  • ", "  "+RenderDim("•")+" "))
	}

	return builder.String()
}
