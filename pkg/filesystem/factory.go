package filesystem

import (
	"fmt"
)

// Open creates a FileSystem for a tree root given as a local path or SFTP URL.
// Returns (filesystem, basePath, closer, error).
//   - filesystem: The FileSystem to scan through
//   - basePath: The root path to use with the filesystem (stripped of URL prefix)
//   - closer: Closes the SFTP connection; a no-op for local roots
func Open(pathStr string, opts ConnectOptions) (FileSystem, string, func(), error) {
	parsed, err := ParsePath(pathStr)
	if err != nil {
		return nil, "", nil, err
	}

	if !parsed.IsRemote {
		return NewRealFileSystem(), parsed.LocalPath, func() {}, nil
	}

	conn, err := Connect(parsed.Host, parsed.Port, parsed.User, opts)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			parsed.User, parsed.Host, parsed.Port, err)
	}

	closer := func() {
		_ = conn.Close()
	}

	sfs := NewSFTPFileSystem(conn)

	// Relative remote paths are anchored at the login directory.
	base, err := sfs.RealPath(parsed.Path)
	if err != nil {
		closer()
		return nil, "", nil, err
	}

	return sfs, base, closer, nil
}
