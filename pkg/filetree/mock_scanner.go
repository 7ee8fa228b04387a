package filetree

import (
	"io/fs"
	"os"
	"path"
	"slices"
	"sync"
)

// MockScanner is an in-memory Scanner for tests. Paths are slash-separated.
type MockScanner struct {
	mu       sync.Mutex
	entries  map[string]Entry
	listings map[string][]Entry
	failures map[string]error
	calls    map[string]int
}

// NewMockScanner creates an empty mock scanner.
func NewMockScanner() *MockScanner {
	return &MockScanner{
		entries:  make(map[string]Entry),
		listings: make(map[string][]Entry),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// DirEntry describes a directory at p.
func DirEntry(p string) Entry {
	return Entry{Path: p, Name: path.Base(p), IsDir: true}
}

// FileEntry describes a regular file at p.
func FileEntry(p string) Entry {
	return Entry{Path: p, Name: path.Base(p)}
}

// SymlinkEntry describes a symbolic link at p pointing to the directory target.
func SymlinkEntry(p, target string) Entry {
	return Entry{Path: p, Name: path.Base(p), IsDir: true, IsSymlink: true, RealPath: target}
}

// AddDir registers dir with the given children. Missing children of a directory
// type get an empty listing of their own unless registered later.
func (m *MockScanner) AddDir(dir string, children ...Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[dir]; !ok {
		m.entries[dir] = DirEntry(dir)
	}

	m.listings[dir] = slices.Clone(children)

	for _, child := range children {
		m.entries[child.Path] = child
	}
}

// AddEntry registers a single entry for Stat.
func (m *MockScanner) AddEntry(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.Path] = entry
}

// Fail makes every Scan of dir return err until Recover is called.
func (m *MockScanner) Fail(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[dir] = err
}

// Recover removes an injected failure.
func (m *MockScanner) Recover(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.failures, dir)
}

// Calls reports how many times dir was scanned.
func (m *MockScanner) Calls(dir string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[dir]
}

// TotalCalls reports how many scans were made in all.
func (m *MockScanner) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.calls {
		total += n
	}

	return total
}

// Stat returns the registered entry for p.
func (m *MockScanner) Stat(p string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[p]
	if !ok {
		return Entry{}, &os.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
	}

	return entry, nil
}

// Scan returns a copy of the registered listing for dir. A directory that
// resolves to one of its ancestors fails with a Cycle error, as FSScanner does.
func (m *MockScanner) Scan(dir string, ancestors []string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[dir]++

	if err := m.failures[dir]; err != nil {
		return nil, err
	}

	entry, ok := m.entries[dir]
	if !ok {
		return nil, &ScanError{Kind: NotFound, Path: dir, Err: fs.ErrNotExist}
	}

	if slices.Contains(ancestors, entry.resolved()) {
		return nil, &ScanError{Kind: Cycle, Path: dir, Err: ErrSymlinkCycle}
	}

	listing := m.listings[entry.resolved()]
	if entry.resolved() != dir {
		// Re-root the target's listing under the link path.
		relinked := make([]Entry, 0, len(listing))
		for _, child := range listing {
			if child.IsDir && child.RealPath == "" {
				child.RealPath = child.Path
			}

			child.Path = path.Join(dir, child.Name)
			m.entries[child.Path] = child
			relinked = append(relinked, child)
		}

		return relinked, nil
	}

	return slices.Clone(listing), nil
}
