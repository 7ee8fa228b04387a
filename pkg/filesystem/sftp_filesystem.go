package filesystem

import (
	"fmt"
	"os"
	"path"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session.
//
// Directory listings are issued one at a time from the UI update loop, so one
// client is enough; there is no connection pool.
type SFTPFileSystem struct {
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{client: conn.Client()}
}

// Abs anchors a relative remote path at the session's working directory.
func (sfs *SFTPFileSystem) Abs(p string) (string, error) {
	if path.IsAbs(p) {
		return path.Clean(p), nil
	}

	wd, err := sfs.client.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get remote working directory: %w", err)
	}

	return path.Join(wd, p), nil
}

// Join joins remote path elements; SFTP always uses forward slashes.
func (sfs *SFTPFileSystem) Join(elem ...string) string {
	return sfs.client.Join(elem...)
}

// Lstat returns remote file information without following symbolic links.
func (sfs *SFTPFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := sfs.client.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat remote file %s: %w", path, err)
	}

	return info, nil
}

// ReadDir lists the direct children of a remote directory (lstat semantics).
func (sfs *SFTPFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	infos, err := sfs.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", path, err)
	}

	return infos, nil
}

// RealPath asks the server to canonicalize path, resolving symbolic links.
func (sfs *SFTPFileSystem) RealPath(path string) (string, error) {
	resolved, err := sfs.client.RealPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve remote path %s: %w", path, err)
	}

	return resolved, nil
}

// Stat returns remote file information, following symbolic links.
func (sfs *SFTPFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := sfs.client.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return info, nil
}
