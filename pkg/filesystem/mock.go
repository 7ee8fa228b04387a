package filesystem

import (
	"errors"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// maxSymlinkHops bounds link resolution, matching the usual kernel limit.
const maxSymlinkHops = 40

var (
	errNotDir       = errors.New("not a directory")
	errTooManyLinks = errors.New("too many levels of symbolic links")
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are slash-separated and absolute, as on an SFTP server.
type MockFileSystem struct {
	mu           sync.RWMutex
	files        map[string]*mockFile
	readDirErrs  map[string]error
	statErrs     map[string]error
	readDirCalls map[string]int
	workDir      string
}

// mockFile represents a file, directory or symbolic link in the mock filesystem.
type mockFile struct {
	path    string
	size    int64
	modTime time.Time
	isDir   bool
	target  string // non-empty for symbolic links
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// NewMockFileSystem creates a new in-memory filesystem containing only "/".
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: map[string]*mockFile{
			"/": {path: "/", isDir: true, perm: 0o755},
		},
		readDirErrs:  make(map[string]error),
		statErrs:     make(map[string]error),
		readDirCalls: make(map[string]int),
		workDir:      "/",
	}
}

// SetWorkDir sets the directory relative paths are anchored at by Abs.
func (mfs *MockFileSystem) SetWorkDir(dir string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.workDir = path.Clean(dir)
}

// Abs anchors name at the working directory set by SetWorkDir ("/" by default).
func (mfs *MockFileSystem) Abs(name string) (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if path.IsAbs(name) {
		return path.Clean(name), nil
	}

	return path.Join(mfs.workDir, name), nil
}

// Join joins path elements with forward slashes.
func (mfs *MockFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// Lstat returns file information without following a final symbolic link.
func (mfs *MockFileSystem) Lstat(name string) (os.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = path.Clean(name)

	if err := mfs.statErrs[name]; err != nil {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: err}
	}

	dir, err := mfs.resolveLocked(path.Dir(name), 0)
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: err}
	}

	file, exists := mfs.files[path.Join(dir, path.Base(name))]
	if !exists {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: os.ErrNotExist}
	}

	return file.info(path.Base(name)), nil
}

// ReadDir lists the direct children of a directory with lstat semantics.
// Each call is counted; see ReadDirCalls.
func (mfs *MockFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	dirname = path.Clean(dirname)
	mfs.readDirCalls[dirname]++

	if err := mfs.readDirErrs[dirname]; err != nil {
		return nil, &os.PathError{Op: "open", Path: dirname, Err: err}
	}

	resolved, err := mfs.resolveLocked(dirname, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: dirname, Err: err}
	}

	if dir := mfs.files[resolved]; !dir.isDir {
		return nil, &os.PathError{Op: "readdirent", Path: dirname, Err: errNotDir}
	}

	var infos []os.FileInfo

	for p, file := range mfs.files {
		if p != "/" && path.Dir(p) == resolved {
			infos = append(infos, file.info(path.Base(p)))
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	return infos, nil
}

// RealPath resolves every symbolic link along name.
func (mfs *MockFileSystem) RealPath(name string) (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(path.Clean(name), 0)
	if err != nil {
		return "", &os.PathError{Op: "realpath", Path: name, Err: err}
	}

	return resolved, nil
}

// Stat returns file information, following symbolic links.
func (mfs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = path.Clean(name)

	if err := mfs.statErrs[name]; err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}

	resolved, err := mfs.resolveLocked(name, 0)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}

	return mfs.files[resolved].info(path.Base(name)), nil
}

// Helper methods for testing

// AddDir adds a directory (and any missing parents) to the mock filesystem.
func (mfs *MockFileSystem) AddDir(name string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.mkdirAllLocked(path.Dir(path.Clean(name)))
	mfs.files[path.Clean(name)] = &mockFile{
		path:    path.Clean(name),
		modTime: modTime,
		isDir:   true,
		perm:    0o755,
	}
}

// AddFile adds a regular file with the given content size and modtime.
func (mfs *MockFileSystem) AddFile(name string, content []byte, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.mkdirAllLocked(path.Dir(path.Clean(name)))
	mfs.files[path.Clean(name)] = &mockFile{
		path:    path.Clean(name),
		size:    int64(len(content)),
		modTime: modTime,
		perm:    0o644,
	}
}

// AddSymlink adds a symbolic link; a relative target is resolved against the link's directory.
func (mfs *MockFileSystem) AddSymlink(name, target string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.mkdirAllLocked(path.Dir(path.Clean(name)))
	mfs.files[path.Clean(name)] = &mockFile{
		path:   path.Clean(name),
		target: target,
		perm:   0o777,
	}
}

// ClearFailures removes every injected error.
func (mfs *MockFileSystem) ClearFailures() {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.readDirErrs = make(map[string]error)
	mfs.statErrs = make(map[string]error)
}

// FailReadDir makes ReadDir of name fail with err until ClearFailures is called.
func (mfs *MockFileSystem) FailReadDir(name string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.readDirErrs[path.Clean(name)] = err
}

// FailStat makes Stat and Lstat of name fail with err until ClearFailures is called.
func (mfs *MockFileSystem) FailStat(name string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.statErrs[path.Clean(name)] = err
}

// ReadDirCalls reports how many times ReadDir was called for name.
func (mfs *MockFileSystem) ReadDirCalls(name string) int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	return mfs.readDirCalls[path.Clean(name)]
}

func (f *mockFile) info(name string) *mockFileInfo {
	mode := f.perm

	switch {
	case f.target != "":
		mode |= os.ModeSymlink
	case f.isDir:
		mode |= os.ModeDir
	}

	return &mockFileInfo{name: name, size: f.size, modTime: f.modTime, mode: mode}
}

// mkdirAllLocked creates name and its parents; the lock must be held.
func (mfs *MockFileSystem) mkdirAllLocked(name string) {
	if _, exists := mfs.files[name]; exists || name == "/" || name == "." {
		return
	}

	mfs.mkdirAllLocked(path.Dir(name))
	mfs.files[name] = &mockFile{path: name, isDir: true, perm: 0o755}
}

// resolveLocked follows symbolic links component by component; the lock must be held.
func (mfs *MockFileSystem) resolveLocked(name string, hops int) (string, error) {
	if !path.IsAbs(name) {
		name = "/" + name
	}

	current := "/"

	for _, part := range strings.Split(strings.Trim(name, "/"), "/") {
		if part == "" {
			continue
		}

		next := path.Join(current, part)

		file, exists := mfs.files[next]
		if !exists {
			return "", os.ErrNotExist
		}

		if file.target != "" {
			hops++
			if hops > maxSymlinkHops {
				return "", errTooManyLinks
			}

			target := file.target
			if !path.IsAbs(target) {
				target = path.Join(current, target)
			}

			resolved, err := mfs.resolveLocked(target, hops)
			if err != nil {
				return "", err
			}

			next = resolved
		}

		current = next
	}

	return current, nil
}
