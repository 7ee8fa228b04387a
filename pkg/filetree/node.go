package filetree

import "os"

// State is the expansion state of a Node.
type State int

// Node states.
const (
	// Collapsed is a directory whose children are hidden; they may or may not be cached.
	Collapsed State = iota
	// Expanded is a directory whose children are cached and shown.
	Expanded
	// Leaf is a file, or a directory known to be empty.
	Leaf
	// Error is a directory whose last scan failed. Toggling it retries.
	Error
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	case Leaf:
		return "leaf"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Node is one filesystem object in the tree.
type Node struct {
	entry    Entry
	state    State
	children []*Node
	scanned  bool
	err      *ScanError
}

func newNode(entry Entry) *Node {
	state := Leaf
	if entry.IsDir {
		state = Collapsed
	}

	return &Node{entry: entry, state: state}
}

// Entry returns the filesystem description of the node.
func (n *Node) Entry() Entry { return n.entry }

// Path returns the node's absolute path.
func (n *Node) Path() string { return n.entry.Path }

// Name returns the node's display name.
func (n *Node) Name() string { return n.entry.Name }

// State returns the node's expansion state.
func (n *Node) State() State { return n.state }

// Err returns the failure of the last scan when the node is in the Error state.
func (n *Node) Err() *ScanError { return n.err }

// Children returns the ordered children of an Expanded node, and nil otherwise.
func (n *Node) Children() []*Node {
	if n.state != Expanded {
		return nil
	}

	return n.children
}

// childContaining returns the cached child that is path or an ancestor of it.
func (n *Node) childContaining(path string) *Node {
	for _, child := range n.children {
		if child.entry.Path == path || isWithin(path, child.entry.Path) {
			return child
		}
	}

	return nil
}

func isWithin(path, dir string) bool {
	if len(path) <= len(dir) || path[:len(dir)] != dir {
		return false
	}

	next := path[len(dir)]

	return next == '/' || next == os.PathSeparator
}
