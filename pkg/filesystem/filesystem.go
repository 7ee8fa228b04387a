// Package filesystem provides an abstraction layer for the read-only filesystem
// operations a directory browser needs, so the same scanner can run against the
// local disk, an SFTP server, or an in-memory mock.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kr/fs"
)

// FileSystem is the capability the tree scanner reads through.
//
// It embeds the kr/fs FileSystem contract (ReadDir with lstat semantics, Lstat,
// Join), which *sftp.Client already satisfies, and adds the operations needed
// to anchor relative paths and follow symbolic links.
type FileSystem interface {
	fs.FileSystem

	// Abs anchors a relative path at the working directory without resolving links.
	Abs(path string) (string, error)

	// Stat returns file information, following symbolic links.
	Stat(path string) (os.FileInfo, error)

	// RealPath returns the canonical absolute path with all symbolic links resolved.
	RealPath(path string) (string, error)
}

// RealFileSystem implements FileSystem using the os and path/filepath packages.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Abs makes path absolute against the process working directory.
func (rfs *RealFileSystem) Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make %s absolute: %w", path, err)
	}

	return abs, nil
}

// Join joins path elements with the host separator.
func (rfs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following symbolic links.
func (rfs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	return info, nil
}

// ReadDir lists the direct children of a directory.
// Entries that vanish or cannot be lstat'd between listing and inspection are skipped.
func (rfs *RealFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// RealPath resolves path to an absolute path with symbolic links evaluated.
func (rfs *RealFileSystem) RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make %s absolute: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return resolved, nil
}

// Stat returns file information, following symbolic links.
func (rfs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}
