package filetree

import (
	"errors"
	"fmt"
	"io/fs"

	pkgerrors "github.com/joe/file-tree/pkg/errors"
)

// ErrSymlinkCycle is wrapped by a ScanError of kind Cycle.
var ErrSymlinkCycle = errors.New("symlink cycle")

// ScanErrorKind classifies why a directory could not be listed.
type ScanErrorKind int

// Scan error kinds.
const (
	IOError ScanErrorKind = iota
	PermissionDenied
	NotFound
	Cycle
)

// String returns the string representation of ScanErrorKind.
func (k ScanErrorKind) String() string {
	switch k {
	case IOError:
		return "i/o error"
	case PermissionDenied:
		return "permission denied"
	case NotFound:
		return "not found"
	case Cycle:
		return "symlink cycle"
	default:
		return "unknown"
	}
}

// ScanError is a per-directory scan failure. It becomes the state of an Error node
// and never escapes the tree as a fault.
type ScanError struct {
	Kind ScanErrorKind
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ConstructionError is returned by New when the root cannot be stat'd.
type ConstructionError struct {
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot open tree root %s: %v", e.Path, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

//nolint:gochecknoglobals // Stateless matcher shared by all scanners
var messageMatcher = pkgerrors.NewPatternMatcher()

// classify converts a filesystem error into a ScanError.
// The fs sentinels are checked first; SFTP servers and wrapped messages fall back
// to pattern matching on the text.
func classify(path string, err error) *ScanError {
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return scanErr
	}

	kind := IOError

	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = PermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		kind = NotFound
	default:
		switch messageMatcher.Match(err.Error()) {
		case pkgerrors.CategoryPermission:
			kind = PermissionDenied
		case pkgerrors.CategoryPath:
			kind = NotFound
		case pkgerrors.CategoryCycle:
			kind = Cycle
		case pkgerrors.CategoryIO, pkgerrors.CategoryUnknown:
		}
	}

	return &ScanError{Kind: kind, Path: path, Err: err}
}
