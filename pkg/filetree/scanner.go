package filetree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/file-tree/pkg/filesystem"
)

// Scanner lists directories on behalf of a Tree.
//
// Implementations report failures as *ScanError where they can; any other error
// is classified by the tree.
type Scanner interface {
	// Stat describes a single path, following a final symbolic link.
	Stat(path string) (Entry, error)

	// Scan lists the direct children of dir. ancestors holds the resolved paths of
	// every directory above dir in the current descent, outermost first.
	Scan(dir string, ancestors []string) ([]Entry, error)
}

// FSScanner implements Scanner over a filesystem.FileSystem.
type FSScanner struct {
	fs         filesystem.FileSystem
	showHidden bool
	ignore     []string
}

// ScanOption configures an FSScanner.
type ScanOption func(*FSScanner)

// WithHidden controls whether dot-prefixed entries are listed.
func WithHidden(show bool) ScanOption {
	return func(s *FSScanner) {
		s.showHidden = show
	}
}

// WithIgnore excludes entries whose name or full path matches any of the
// doublestar patterns (e.g. "node_modules", "**/*.tmp").
func WithIgnore(patterns ...string) ScanOption {
	return func(s *FSScanner) {
		s.ignore = append(s.ignore, patterns...)
	}
}

// NewFSScanner creates a scanner reading through fsys.
func NewFSScanner(fsys filesystem.FileSystem, opts ...ScanOption) *FSScanner {
	s := &FSScanner{fs: fsys}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Stat describes path, made absolute first so every path below it is absolute
// too. A symbolic link to a directory is reported as a directory; a dangling
// link as a plain entry.
func (s *FSScanner) Stat(path string) (Entry, error) {
	abs, err := s.fs.Abs(path)
	if err != nil {
		return Entry{}, classify(path, err)
	}

	path = abs

	linfo, err := s.fs.Lstat(path)
	if err != nil {
		return Entry{}, classify(path, err)
	}

	entry := Entry{
		Path:      path,
		Name:      linfo.Name(),
		IsDir:     linfo.IsDir(),
		IsSymlink: linfo.Mode()&os.ModeSymlink != 0,
	}

	if entry.IsSymlink {
		info, err := s.fs.Stat(path)
		if err == nil {
			entry.IsDir = info.IsDir()
		}
	}

	if entry.IsDir {
		if resolved, err := s.fs.RealPath(path); err == nil {
			entry.RealPath = resolved
		}
	}

	return entry, nil
}

// Scan lists dir, refusing to descend into a directory that resolves to one of
// its own ancestors. Children that disappear or cannot be inspected mid-scan are
// omitted rather than failing the whole listing.
func (s *FSScanner) Scan(dir string, ancestors []string) ([]Entry, error) {
	resolved, err := s.fs.RealPath(dir)
	if err != nil {
		return nil, classify(dir, err)
	}

	if slices.Contains(ancestors, resolved) {
		return nil, &ScanError{Kind: Cycle, Path: dir, Err: ErrSymlinkCycle}
	}

	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, classify(dir, err)
	}

	entries := make([]Entry, 0, len(infos))

	for _, info := range infos {
		name := info.Name()
		if !s.showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		childPath := s.fs.Join(dir, name)
		if s.ignored(name, childPath) {
			continue
		}

		entry, ok := s.describe(childPath, resolved, info)
		if !ok {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// describe turns one listing result into an Entry. resolvedParent is the
// canonical form of the directory being listed.
func (s *FSScanner) describe(path, resolvedParent string, info os.FileInfo) (Entry, bool) {
	entry := Entry{
		Path:      path,
		Name:      info.Name(),
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
	}

	if !entry.IsSymlink {
		if entry.IsDir {
			entry.RealPath = s.fs.Join(resolvedParent, entry.Name)
		}

		return entry, true
	}

	target, err := s.fs.Stat(path)

	switch {
	case err == nil:
		entry.IsDir = target.IsDir()
	case errors.Is(err, fs.ErrNotExist):
		// Dangling link: shown, but never expandable.
		return entry, true
	default:
		return Entry{}, false
	}

	if entry.IsDir {
		resolved, err := s.fs.RealPath(path)
		if err != nil {
			return Entry{}, false
		}

		entry.RealPath = resolved
	}

	return entry, true
}

func (s *FSScanner) ignored(name, path string) bool {
	slashed := filepath.ToSlash(path)

	for _, pattern := range s.ignore {
		if match, _ := doublestar.Match(pattern, name); match {
			return true
		}

		if match, _ := doublestar.Match(pattern, slashed); match {
			return true
		}
	}

	return false
}
