//go:generate go run github.com/toejough/imptest/impgen --dependency filetree.EventEmitter
//go:generate go run github.com/toejough/imptest/impgen --dependency filetree.Scanner

package filetree_test

import (
	"io/fs"
	"os"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/file-tree/pkg/filetree"
)

type row struct {
	Depth int
	Name  string
	State filetree.State
}

func rows(tree *filetree.Tree) []row {
	var out []row
	for depth, node := range tree.VisibleRows() {
		out = append(out, row{Depth: depth, Name: node.Name(), State: node.State()})
	}

	return out
}

func scenarioScanner() *filetree.MockScanner {
	scanner := filetree.NewMockScanner()
	scanner.AddDir("/root",
		filetree.FileEntry("/root/b.txt"),
		filetree.DirEntry("/root/A"),
	)
	scanner.AddDir("/root/A", filetree.FileEntry("/root/A/c.txt"))

	return scanner
}

func TestNew_ScenarioRowsDirectoriesFirst(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(rows(tree)).To(Equal([]row{
		{0, "A", filetree.Collapsed},
		{0, "b.txt", filetree.Leaf},
	}))
}

func TestToggle_ScenarioExpandsChildInPlace(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")

	g.Expect(rows(tree)).To(Equal([]row{
		{0, "A", filetree.Expanded},
		{1, "c.txt", filetree.Leaf},
		{0, "b.txt", filetree.Leaf},
	}))
}

func TestNew_MissingRootIsConstructionError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := filetree.New("/nowhere", filetree.NewMockScanner())
	g.Expect(err).To(HaveOccurred())
	g.Expect(filetree.IsConstructionError(err)).To(BeTrue())

	var constructionErr *filetree.ConstructionError
	g.Expect(err).To(BeAssignableToTypeOf(constructionErr))
	g.Expect(err.Error()).To(ContainSubstring("/nowhere"))
}

func TestNew_FileRootIsSingleLeafRow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddEntry(filetree.FileEntry("/notes.txt"))

	tree, err := filetree.New("/notes.txt", scanner)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(rows(tree)).To(Equal([]row{{0, "notes.txt", filetree.Leaf}}))
	g.Expect(scanner.TotalCalls()).To(BeZero())
}

func TestNew_RootScanFailureLeavesRetryableRootRow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/locked", filetree.FileEntry("/locked/secret"))
	scanner.Fail("/locked", fs.ErrPermission)

	tree, err := filetree.New("/locked", scanner)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(rows(tree)).To(Equal([]row{{0, "locked", filetree.Error}}))

	scanner.Recover("/locked")
	tree.Toggle("/locked")

	g.Expect(rows(tree)).To(Equal([]row{{0, "secret", filetree.Leaf}}))
}

func TestToggle_ExpandCollapseExpandScansOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := scenarioScanner()
	tree, err := filetree.New("/root", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	before := scanner.TotalCalls()

	tree.Toggle("/root/A")
	first := rows(tree)

	tree.Toggle("/root/A")
	g.Expect(rows(tree)).To(Equal([]row{
		{0, "A", filetree.Collapsed},
		{0, "b.txt", filetree.Leaf},
	}))

	tree.Toggle("/root/A")
	g.Expect(rows(tree)).To(Equal(first))
	g.Expect(scanner.TotalCalls() - before).To(Equal(1))
	g.Expect(scanner.Calls("/root/A")).To(Equal(1))
}

func TestToggle_CollapsedNodeExposesNoChildren(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")
	tree.Toggle("/root/A")

	node, ok := tree.Lookup("/root/A")
	g.Expect(ok).To(BeTrue())
	g.Expect(node.State()).To(Equal(filetree.Collapsed))
	g.Expect(node.Children()).To(BeNil())
}

func TestToggle_UnknownPathIsNoOp(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := scenarioScanner()
	tree, err := filetree.New("/root", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Select("/root/b.txt")

	before := rows(tree)
	calls := scanner.TotalCalls()

	tree.Toggle("/root/missing")
	tree.Toggle("/root/A/c.txt") // not discovered yet
	tree.Toggle("/elsewhere")
	tree.Toggle("")

	g.Expect(rows(tree)).To(Equal(before))
	g.Expect(scanner.TotalCalls()).To(Equal(calls))

	selected, ok := tree.Selected()
	g.Expect(ok).To(BeTrue())
	g.Expect(selected).To(Equal("/root/b.txt"))
}

func TestToggle_SiblingPrefixIsNotAncestor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r", filetree.DirEntry("/r/a"), filetree.DirEntry("/r/ab"))
	scanner.AddDir("/r/a", filetree.FileEntry("/r/a/x"))
	scanner.AddDir("/r/ab", filetree.FileEntry("/r/ab/y"))

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/r/ab")

	a, _ := tree.Lookup("/r/a")
	ab, _ := tree.Lookup("/r/ab")
	g.Expect(a.State()).To(Equal(filetree.Collapsed))
	g.Expect(ab.State()).To(Equal(filetree.Expanded))
}

func TestToggle_LeafIsAbsorbing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := scenarioScanner()
	tree, err := filetree.New("/root", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	calls := scanner.TotalCalls()
	tree.Toggle("/root/b.txt")

	node, _ := tree.Lookup("/root/b.txt")
	g.Expect(node.State()).To(Equal(filetree.Leaf))
	g.Expect(scanner.TotalCalls()).To(Equal(calls))
}

func TestToggle_EmptyDirectoryBecomesLeaf(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r", filetree.DirEntry("/r/empty"))
	scanner.AddDir("/r/empty")

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/r/empty")

	node, _ := tree.Lookup("/r/empty")
	g.Expect(node.State()).To(Equal(filetree.Leaf))

	tree.Toggle("/r/empty")
	g.Expect(scanner.Calls("/r/empty")).To(Equal(1))
}

func TestToggle_PermissionDeniedRetriesUntilSuccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r", filetree.DirEntry("/r/private"), filetree.FileEntry("/r/z.txt"))
	scanner.AddDir("/r/private", filetree.FileEntry("/r/private/key"))
	scanner.Fail("/r/private", &os.PathError{Op: "open", Path: "/r/private", Err: fs.ErrPermission})

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/r/private")

	node, _ := tree.Lookup("/r/private")
	g.Expect(node.State()).To(Equal(filetree.Error))
	g.Expect(node.Err().Kind).To(Equal(filetree.PermissionDenied))
	g.Expect(node.Children()).To(BeNil())

	tree.Toggle("/r/private")
	g.Expect(node.State()).To(Equal(filetree.Error))

	scanner.Recover("/r/private")
	tree.Toggle("/r/private")

	g.Expect(node.State()).To(Equal(filetree.Expanded))
	g.Expect(node.Err()).To(BeNil())
	g.Expect(scanner.Calls("/r/private")).To(Equal(3))

	// Siblings are untouched by the failures.
	sibling, _ := tree.Lookup("/r/z.txt")
	g.Expect(sibling.State()).To(Equal(filetree.Leaf))
}

func TestToggle_NotFoundHoldsNoChildren(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r", filetree.DirEntry("/r/d"))
	scanner.AddDir("/r/d", filetree.FileEntry("/r/d/f"))
	scanner.Fail("/r/d", fs.ErrNotExist)

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/r/d")

	node, _ := tree.Lookup("/r/d")
	g.Expect(node.Err().Kind).To(Equal(filetree.NotFound))

	_, found := tree.Lookup("/r/d/f")
	g.Expect(found).To(BeFalse())
}

func TestToggle_SymlinkCycleBecomesErrorNode(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/a", filetree.SymlinkEntry("/a/link", "/a"), filetree.FileEntry("/a/f"))

	tree, err := filetree.New("/a", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/a/link")

	node, _ := tree.Lookup("/a/link")
	g.Expect(node.State()).To(Equal(filetree.Error))
	g.Expect(node.Err().Kind).To(Equal(filetree.Cycle))
	g.Expect(node.Err()).To(MatchError(filetree.ErrSymlinkCycle))
}

func TestToggle_SymlinkToSiblingExpandsTargetListing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r", filetree.DirEntry("/r/real"), filetree.SymlinkEntry("/r/link", "/r/real"))
	scanner.AddDir("/r/real", filetree.FileEntry("/r/real/inside"))

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/r/link")

	node, _ := tree.Lookup("/r/link/inside")
	g.Expect(node).ToNot(BeNil())
	g.Expect(node.State()).To(Equal(filetree.Leaf))
}

func TestSortOrder_CaseSensitiveByDefault(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r",
		filetree.FileEntry("/r/beta"),
		filetree.FileEntry("/r/Alpha"),
		filetree.DirEntry("/r/zeta"),
		filetree.FileEntry("/r/alpha"),
		filetree.DirEntry("/r/Docs"),
	)

	tree, err := filetree.New("/r", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	var names []string
	for _, node := range tree.VisibleRows() {
		names = append(names, node.Name())
	}

	g.Expect(names).To(Equal([]string{"Docs", "zeta", "Alpha", "alpha", "beta"}))
}

func TestSortOrder_CaseInsensitiveIsStableAcrossRescans(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r",
		filetree.FileEntry("/r/beta"),
		filetree.FileEntry("/r/alpha"),
		filetree.DirEntry("/r/zeta"),
		filetree.FileEntry("/r/Alpha"),
		filetree.DirEntry("/r/Docs"),
	)

	want := []string{"Docs", "zeta", "Alpha", "alpha", "beta"}

	for range 3 {
		tree, err := filetree.New("/r", scanner, filetree.WithSortCaseSensitive(false))
		g.Expect(err).ToNot(HaveOccurred())

		var names []string
		for _, node := range tree.VisibleRows() {
			names = append(names, node.Name())
		}

		g.Expect(names).To(Equal(want))
	}
}

func TestSortOrder_CaseInsensitiveInterleavesCase(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filetree.NewMockScanner()
	scanner.AddDir("/r",
		filetree.FileEntry("/r/b"),
		filetree.FileEntry("/r/C"),
		filetree.FileEntry("/r/a"),
	)

	tree, err := filetree.New("/r", scanner, filetree.WithSortCaseSensitive(false))
	g.Expect(err).ToNot(HaveOccurred())

	var names []string
	for _, node := range tree.VisibleRows() {
		names = append(names, node.Name())
	}

	g.Expect(names).To(Equal([]string{"a", "b", "C"}))
}

func TestSelect_OnlyKnownPaths(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	_, ok := tree.Selected()
	g.Expect(ok).To(BeFalse())

	tree.Select("/root/ghost")
	_, ok = tree.Selected()
	g.Expect(ok).To(BeFalse())

	tree.Select("/root/A")
	selected, ok := tree.Selected()
	g.Expect(ok).To(BeTrue())
	g.Expect(selected).To(Equal("/root/A"))
}

func TestSelect_DoesNotScan(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := scenarioScanner()
	tree, err := filetree.New("/root", scanner)
	g.Expect(err).ToNot(HaveOccurred())

	calls := scanner.TotalCalls()
	tree.Select("/root/A")

	node, _ := tree.Lookup("/root/A")
	g.Expect(node.State()).To(Equal(filetree.Collapsed))
	g.Expect(scanner.TotalCalls()).To(Equal(calls))
}

func TestParent_SkipsExpandedRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")

	parent, ok := tree.Parent("/root/A/c.txt")
	g.Expect(ok).To(BeTrue())
	g.Expect(parent).To(Equal("/root/A"))

	_, ok = tree.Parent("/root/A")
	g.Expect(ok).To(BeFalse())

	_, ok = tree.Parent("/root/unknown")
	g.Expect(ok).To(BeFalse())
}

func TestVisibleRows_RestartableAndStoppable(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")

	count := 0
	for range tree.VisibleRows() {
		count++
		if count == 2 {
			break
		}
	}

	g.Expect(count).To(Equal(2))
	g.Expect(rows(tree)).To(HaveLen(3))
	g.Expect(rows(tree)).To(HaveLen(3))
}

func TestVisibleRows_CollapsedRootIsSingleRow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tree, err := filetree.New("/root", scenarioScanner())
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root")

	g.Expect(rows(tree)).To(Equal([]row{{0, "root", filetree.Collapsed}}))

	tree.Toggle("/root")
	g.Expect(rows(tree)).To(HaveLen(2))
}

func TestEvents_ScanAndToggleLifecycle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	emitter := MockEventEmitter(t)
	scanner := scenarioScanner()
	scanner.Fail("/root/A", fs.ErrPermission)

	done := make(chan struct{})
	go func() {
		defer close(done)
		emitter.Method.Emit.ExpectCalledWithExactly(filetree.ScanStarted{Path: "/root"}).InjectReturnValues()
		emitter.Method.Emit.ExpectCalledWithExactly(filetree.ScanCompleted{Path: "/root", Entries: 2}).InjectReturnValues()

		emitter.Method.Emit.ExpectCalledWithExactly(filetree.ScanStarted{Path: "/root/A"}).InjectReturnValues()
		emitter.Method.Emit.ExpectCalledWithExactly(filetree.ScanFailed{
			Path: "/root/A",
			Err:  &filetree.ScanError{Kind: filetree.PermissionDenied, Path: "/root/A", Err: fs.ErrPermission},
		}).InjectReturnValues()
		emitter.Method.Emit.ExpectCalledWithExactly(filetree.NodeToggled{Path: "/root/A", State: filetree.Error}).InjectReturnValues()

		// Re-selecting the current path emits nothing.
		emitter.Method.Emit.ExpectCalledWithExactly(filetree.PathSelected{Path: "/root/b.txt"}).InjectReturnValues()
	}()

	tree, err := filetree.New("/root", scanner, filetree.WithEventEmitter(emitter.Mock))
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")
	tree.Select("/root/b.txt")
	tree.Select("/root/b.txt")
	<-done

	node, ok := tree.Lookup("/root/A")
	g.Expect(ok).To(BeTrue())
	g.Expect(node.State()).To(Equal(filetree.Error))
}

// TestToggle_ListsEachDirectoryOnce drives the tree against a scanner that
// accepts exactly one listing per directory.
func TestToggle_ListsEachDirectoryOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := MockScanner(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner.Method.Stat.ExpectCalledWithExactly("/root").
			InjectReturnValues(filetree.DirEntry("/root"), nil)
		scanner.Method.Scan.ExpectCalledWithExactly("/root", []string{}).
			InjectReturnValues([]filetree.Entry{filetree.FileEntry("/root/b.txt"), filetree.DirEntry("/root/A")}, nil)
		scanner.Method.Scan.ExpectCalledWithExactly("/root/A", []string{"/root"}).
			InjectReturnValues([]filetree.Entry{filetree.FileEntry("/root/A/c.txt")}, nil)
	}()

	tree, err := filetree.New("/root", scanner.Mock)
	g.Expect(err).ToNot(HaveOccurred())

	tree.Toggle("/root/A")
	tree.Toggle("/root/A")
	tree.Toggle("/root/A")
	<-done

	g.Expect(rows(tree)).To(Equal([]row{
		{0, "A", filetree.Expanded},
		{1, "c.txt", filetree.Leaf},
		{0, "b.txt", filetree.Leaf},
	}))
}

func TestState_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(filetree.Collapsed.String()).To(Equal("collapsed"))
	g.Expect(filetree.Expanded.String()).To(Equal("expanded"))
	g.Expect(filetree.Leaf.String()).To(Equal("leaf"))
	g.Expect(filetree.Error.String()).To(Equal("error"))
	g.Expect(filetree.State(42).String()).To(Equal("unknown"))
}
