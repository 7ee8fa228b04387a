package filetree

// Entry is an immutable description of one filesystem object, produced fresh by every scan.
type Entry struct {
	// Path is the absolute path, unique within one tree.
	Path string

	// Name is the last path component, used for display and ordering.
	Name string

	// IsDir reports whether the entry is a directory, following symbolic links.
	IsDir bool

	// IsSymlink reports whether the entry itself is a symbolic link.
	IsSymlink bool

	// RealPath is the resolved location of a directory, used to detect symlink cycles.
	// Empty when unknown; Path is used in its place.
	RealPath string
}

func (e Entry) resolved() string {
	if e.RealPath != "" {
		return e.RealPath
	}

	return e.Path
}
