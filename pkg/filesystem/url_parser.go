package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
)

const (
	defaultSFTPPort = 22
	sftpScheme      = "sftp"
)

// Errors returned while parsing an SFTP URL.
var (
	ErrMissingHost = errors.New("SFTP URL must include host")
	ErrMissingUser = errors.New("SFTP URL must include username (sftp://user@host/path)")
)

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// ParsePath parses a tree root, detecting whether it's a local path or SFTP URL.
// SFTP URLs have the format: sftp://user@host:port/path/to/dir
// Port is optional (defaults to 22). A leading ~ in a local path is expanded and
// the result made absolute.
// Examples:
//   - sftp://joe@myserver.com/projects (relative to the remote home)
//   - sftp://joe@myserver.com:2222//srv/data (absolute remote path)
//   - ~/src (local path)
func ParsePath(path string) (*ParsedPath, error) {
	if strings.HasPrefix(path, sftpScheme+"://") {
		return parseSFTPURL(path)
	}

	local, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", path, err)
	}

	local, err = filepath.Abs(local)
	if err != nil {
		return nil, fmt.Errorf("failed to make %s absolute: %w", path, err)
	}

	return &ParsedPath{
		IsRemote:  false,
		LocalPath: local,
	}, nil
}

// String renders the path back in the form ParsePath accepts.
func (p *ParsedPath) String() string {
	if !p.IsRemote {
		return p.LocalPath
	}

	remote := "/" + p.Path
	if p.Path == "." {
		remote = ""
	}

	if p.Port == defaultSFTPPort {
		return fmt.Sprintf("%s://%s@%s%s", sftpScheme, p.User, p.Host, remote)
	}

	return fmt.Sprintf("%s://%s@%s:%d%s", sftpScheme, p.User, p.Host, p.Port, remote)
}

// parseSFTPURL parses an SFTP URL into its components.
func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, ErrMissingUser
	}

	host := u.Hostname()
	if host == "" {
		return nil, ErrMissingHost
	}

	port := defaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}

		port = p
	}

	// sftp://user@host/path  → relative to home directory (strip leading /)
	// sftp://user@host//path → absolute path /path (strip one /)
	// sftp://user@host       → home directory (.)
	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath,
	}, nil
}
