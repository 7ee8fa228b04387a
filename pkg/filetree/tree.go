// Package filetree models a lazily expanded view of a directory hierarchy.
//
// A Tree holds one Node per filesystem object it has seen. Directories are
// listed on first expansion only and their children are cached across
// collapse and re-expand. Listing failures are kept on the node as an Error
// state and never abort the tree.
//
// The tree is not safe for concurrent use; it is owned by a single UI update loop.
package filetree

import (
	"errors"
	"fmt"
	"iter"
	"os"
)

// Tree is the model behind a file tree widget.
type Tree struct {
	root          *Node
	scanner       Scanner
	caseSensitive bool
	emitter       EventEmitter
	logFile       *os.File

	selected     string
	hasSelection bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithSortCaseSensitive selects case-sensitive name ordering. Defaults to true.
func WithSortCaseSensitive(caseSensitive bool) Option {
	return func(t *Tree) {
		t.caseSensitive = caseSensitive
	}
}

// WithEventEmitter sets the emitter that receives tree events.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(t *Tree) {
		t.emitter = emitter
	}
}

// New builds a tree rooted at root. A directory root is scanned immediately and
// starts expanded; a scan failure leaves the root in the Error state. Only a root
// that cannot be stat'd at all yields an error, of type *ConstructionError.
func New(root string, scanner Scanner, opts ...Option) (*Tree, error) {
	entry, err := scanner.Stat(root)
	if err != nil {
		return nil, &ConstructionError{Path: root, Err: err}
	}

	t := &Tree{
		root:          newNode(entry),
		scanner:       scanner,
		caseSensitive: true,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.root.state == Collapsed {
		t.scan(t.root, nil)
	}

	return t, nil
}

// SetEventEmitter replaces the emitter that receives tree events.
func (t *Tree) SetEventEmitter(emitter EventEmitter) {
	t.emitter = emitter
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Lookup finds the node for path among the nodes scanned so far.
func (t *Tree) Lookup(path string) (*Node, bool) {
	chain := t.chain(path)
	if chain == nil {
		return nil, false
	}

	return chain[len(chain)-1], true
}

// Toggle flips the node at path between collapsed and expanded.
//
// The first expansion of a directory lists it; later expansions reuse the
// cached children. Toggling an Error node retries the listing. Files, empty
// directories and paths not in the tree are left alone.
//
// The listing runs synchronously in the caller. Toggle returns only after the
// directory has been read, so one slow directory or SFTP round trip blocks the
// update loop for as long as the listing takes.
func (t *Tree) Toggle(path string) {
	chain := t.chain(path)
	if chain == nil {
		t.logToFile("Toggle ignored, not in tree: " + path)
		return
	}

	node := chain[len(chain)-1]

	switch node.state {
	case Leaf:
		return
	case Expanded:
		node.state = Collapsed
	case Collapsed:
		if node.scanned {
			node.state = Expanded
		} else {
			t.scan(node, chain[:len(chain)-1])
		}
	case Error:
		t.scan(node, chain[:len(chain)-1])
	}

	t.logToFile(fmt.Sprintf("Toggled %s -> %s", path, node.state))
	t.emit(NodeToggled{Path: path, State: node.state})
}

// Select marks path as the selected entry. Paths not in the tree are ignored.
func (t *Tree) Select(path string) {
	if t.chain(path) == nil {
		return
	}

	if t.hasSelection && t.selected == path {
		return
	}

	t.selected = path
	t.hasSelection = true
	t.emit(PathSelected{Path: path})
}

// Selected returns the selected path, if any.
func (t *Tree) Selected() (string, bool) {
	return t.selected, t.hasSelection
}

// Parent returns the path of the nearest ancestor of path that is shown as a row.
// The root is not a row while it is expanded, so its direct children have no parent.
func (t *Tree) Parent(path string) (string, bool) {
	chain := t.chain(path)
	if len(chain) < 2 { //nolint:mnd // node plus at least one ancestor
		return "", false
	}

	parent := chain[len(chain)-2]
	if parent == t.root {
		return "", false
	}

	return parent.entry.Path, true
}

// VisibleRows yields every node currently shown, in display order, with its depth.
//
// While the root is expanded its children are the top-level rows at depth 0;
// otherwise the root itself is the single row.
func (t *Tree) VisibleRows() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		if t.root.state != Expanded {
			yield(0, t.root)
			return
		}

		walkVisible(t.root.children, 0, yield)
	}
}

func walkVisible(nodes []*Node, depth int, yield func(int, *Node) bool) bool {
	for _, node := range nodes {
		if !yield(depth, node) {
			return false
		}

		if node.state == Expanded && !walkVisible(node.children, depth+1, yield) {
			return false
		}
	}

	return true
}

// chain returns the nodes from the root down to path, or nil when path is not in the tree.
func (t *Tree) chain(path string) []*Node {
	node := t.root
	chain := []*Node{node}

	for node.entry.Path != path {
		node = node.childContaining(path)
		if node == nil {
			return nil
		}

		chain = append(chain, node)
	}

	return chain
}

// scan lists node and replaces its children. A failure discards any cached
// children; the listing is all or nothing.
func (t *Tree) scan(node *Node, ancestors []*Node) {
	path := node.entry.Path

	resolved := make([]string, 0, len(ancestors))
	for _, ancestor := range ancestors {
		resolved = append(resolved, ancestor.entry.resolved())
	}

	t.emit(ScanStarted{Path: path})
	t.logToFile("Scanning " + path)

	entries, err := t.scanner.Scan(path, resolved)
	if err != nil {
		scanErr := classify(path, err)

		node.state = Error
		node.err = scanErr
		node.children = nil
		node.scanned = false

		t.logToFile("Scan failed: " + scanErr.Error())
		t.emit(ScanFailed{Path: path, Err: scanErr})

		return
	}

	sortEntries(entries, t.caseSensitive)

	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		children = append(children, newNode(entry))
	}

	node.children = children
	node.scanned = true
	node.err = nil

	node.state = Expanded
	if len(children) == 0 {
		node.state = Leaf
	}

	t.logToFile(fmt.Sprintf("Scanned %s: %d entries", path, len(children)))
	t.emit(ScanCompleted{Path: path, Entries: len(children)})
}

func (t *Tree) emit(event Event) {
	if t.emitter != nil {
		t.emitter.Emit(event)
	}
}

// IsConstructionError reports whether err came from failing to open the tree root.
func IsConstructionError(err error) bool {
	var constructionErr *ConstructionError

	return errors.As(err, &constructionErr)
}
