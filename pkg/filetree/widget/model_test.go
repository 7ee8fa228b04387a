package widget_test

import (
	"io/fs"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/file-tree/pkg/filesystem"
	"github.com/joe/file-tree/pkg/filetree"
	"github.com/joe/file-tree/pkg/filetree/widget"
)

type activated struct{ path string }

type selected struct{ path string }

func press(row int) tea.MouseMsg {
	return tea.MouseMsg{Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func keyPress(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func paths(rows []widget.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Path)
	}

	return out
}

func states(rows []widget.Row) []filetree.State {
	out := make([]filetree.State, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.State)
	}

	return out
}

var _ = Describe("Model", func() {
	var (
		scanner *filetree.MockScanner
		clock   *widget.MockClock
		model   widget.Model
	)

	BeforeEach(func() {
		scanner = filetree.NewMockScanner()
		scanner.AddDir("/root",
			filetree.FileEntry("/root/b.txt"),
			filetree.DirEntry("/root/A"),
		)
		scanner.AddDir("/root/A", filetree.FileEntry("/root/A/c.txt"))

		clock = &widget.MockClock{Current: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

		var err error
		model, err = widget.New("/root",
			widget.WithScanner(scanner),
			widget.WithClock(clock),
			widget.OnDoubleClick(func(path string) tea.Msg { return activated{path} }),
		)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Construction", func() {
		It("shows the root's children with directories first", func() {
			Expect(paths(model.Rows())).To(Equal([]string{"/root/A", "/root/b.txt"}))
			Expect(states(model.Rows())).To(Equal([]filetree.State{filetree.Collapsed, filetree.Leaf}))
		})

		It("fails with a construction error for a missing root", func() {
			_, err := widget.New("/missing", widget.WithScanner(scanner))
			Expect(filetree.IsConstructionError(err)).To(BeTrue())
		})

		It("has no selection", func() {
			Expect(model.SelectedIndex()).To(Equal(-1))
		})
	})

	Describe("Single click", func() {
		It("selects and expands a directory", func() {
			model, _ = model.Update(press(0))

			Expect(paths(model.Rows())).To(Equal([]string{"/root/A", "/root/A/c.txt", "/root/b.txt"}))
			Expect(model.SelectedIndex()).To(Equal(0))
		})

		It("selects a file without scanning", func() {
			calls := scanner.TotalCalls()
			model, _ = model.Update(press(1))

			Expect(model.SelectedIndex()).To(Equal(1))
			Expect(scanner.TotalCalls()).To(Equal(calls))
		})

		It("does not forward selection unless configured", func() {
			_, cmd := model.Update(press(1))
			Expect(cmd).To(BeNil())
		})

		It("forwards selection when OnSelect is set", func() {
			forwarding, err := widget.New("/root",
				widget.WithScanner(scanner),
				widget.WithClock(clock),
				widget.OnSelect(func(path string) tea.Msg { return selected{path} }),
			)
			Expect(err).ToNot(HaveOccurred())

			_, cmd := forwarding.Update(press(1))
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(selected{"/root/b.txt"}))
		})

		It("ignores presses below the last row", func() {
			model, cmd := model.Update(press(7))
			Expect(cmd).To(BeNil())
			Expect(model.SelectedIndex()).To(Equal(-1))
		})

		It("ignores releases and wheel events", func() {
			release := tea.MouseMsg{Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
			wheel := tea.MouseMsg{Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}

			model, _ = model.Update(release)
			model, _ = model.Update(wheel)

			Expect(model.SelectedIndex()).To(Equal(-1))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Collapsed))
		})

		It("collapses again on a slow second click", func() {
			model, _ = model.Update(press(0))
			clock.Advance(time.Second)
			model, _ = model.Update(press(0))

			Expect(states(model.Rows())).To(Equal([]filetree.State{filetree.Collapsed, filetree.Leaf}))
			Expect(scanner.Calls("/root/A")).To(Equal(1))
		})
	})

	Describe("Double click", func() {
		It("emits exactly one activation and leaves the tree unchanged", func() {
			model, _ = model.Update(press(1))
			before := model.Rows()

			clock.Advance(100 * time.Millisecond)
			model, cmd := model.Update(press(1))

			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(activated{"/root/b.txt"}))
			Expect(model.Rows()).To(Equal(before))
		})

		It("does not toggle a directory on the second press", func() {
			model, _ = model.Update(press(0))
			afterFirst := model.Rows()

			clock.Advance(100 * time.Millisecond)
			model, cmd := model.Update(press(0))

			Expect(cmd()).To(Equal(activated{"/root/A"}))
			Expect(model.Rows()).To(Equal(afterFirst))
			Expect(scanner.Calls("/root/A")).To(Equal(1))
		})

		It("requires both presses on the same row", func() {
			model, _ = model.Update(press(0))
			clock.Advance(100 * time.Millisecond)
			_, cmd := model.Update(press(2))

			Expect(cmd).To(BeNil())
		})

		It("drops the activation when no handler is configured", func() {
			bare, err := widget.New("/root", widget.WithScanner(scanner), widget.WithClock(clock))
			Expect(err).ToNot(HaveOccurred())

			bare, _ = bare.Update(press(1))
			_, cmd := bare.Update(press(1))
			Expect(cmd).To(BeNil())
		})

		It("starts over after a double click", func() {
			model, _ = model.Update(press(1))
			model, _ = model.Update(press(1))
			_, cmd := model.Update(press(1))

			Expect(cmd).To(BeNil())
		})
	})

	Describe("Hover", func() {
		motion := func(row int) tea.MouseMsg {
			return tea.MouseMsg{Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
		}

		It("highlights the row under the pointer without selecting or scanning", func() {
			calls := scanner.TotalCalls()

			model, _ = model.Update(motion(1))

			Expect(model.Hovered()).To(Equal("/root/b.txt"))
			Expect(model.Rows()[1].Hovered).To(BeTrue())
			Expect(model.Rows()[0].Hovered).To(BeFalse())
			Expect(model.SelectedIndex()).To(Equal(-1))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Collapsed))
			Expect(scanner.TotalCalls()).To(Equal(calls))
		})

		It("clears the highlight below the last row and on request", func() {
			model, _ = model.Update(motion(0))
			Expect(model.Hovered()).To(Equal("/root/A"))

			model, _ = model.Update(motion(5))
			Expect(model.Hovered()).To(BeEmpty())

			model, _ = model.Update(motion(0))
			model.ClearHover()
			Expect(model.Hovered()).To(BeEmpty())
		})
	})

	Describe("Relative root", func() {
		It("reports absolute paths to the host", func() {
			mfs := filesystem.NewMockFileSystem()
			mfs.AddFile("/work/A/c.txt", nil, time.Now())
			mfs.AddFile("/work/b.txt", nil, time.Now())
			mfs.SetWorkDir("/work")

			relative, err := widget.New(".",
				widget.WithFileSystem(mfs),
				widget.OnDoubleClick(func(path string) tea.Msg { return activated{path} }),
			)
			Expect(err).ToNot(HaveOccurred())
			Expect(paths(relative.Rows())).To(Equal([]string{"/work/A", "/work/b.txt"}))

			relative, _ = relative.Update(keyPress(tea.KeyDown))
			_, cmd := relative.Update(keyPress(tea.KeyEnter))
			Expect(cmd()).To(Equal(activated{"/work/A"}))
		})
	})

	Describe("Keyboard", func() {
		It("moves the selection and activates with enter", func() {
			model, _ = model.Update(keyPress(tea.KeyDown))
			model, _ = model.Update(keyPress(tea.KeyDown))
			Expect(model.SelectedIndex()).To(Equal(1))

			model, _ = model.Update(keyPress(tea.KeyDown))
			Expect(model.SelectedIndex()).To(Equal(1))

			_, cmd := model.Update(keyPress(tea.KeyEnter))
			Expect(cmd()).To(Equal(activated{"/root/b.txt"}))
		})

		It("toggles with space", func() {
			model, _ = model.Update(keyPress(tea.KeyDown))
			model, _ = model.Update(keyPress(tea.KeySpace))

			Expect(states(model.Rows())[0]).To(Equal(filetree.Expanded))
		})

		It("expands, steps into, and walks back out with the arrows", func() {
			model, _ = model.Update(keyPress(tea.KeyDown))
			model, _ = model.Update(keyPress(tea.KeyRight))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Expanded))

			model, _ = model.Update(keyPress(tea.KeyRight))
			Expect(model.Rows()[model.SelectedIndex()].Path).To(Equal("/root/A/c.txt"))

			model, _ = model.Update(keyPress(tea.KeyLeft))
			Expect(model.Rows()[model.SelectedIndex()].Path).To(Equal("/root/A"))

			model, _ = model.Update(keyPress(tea.KeyLeft))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Collapsed))
		})

		It("retries a failed directory with right", func() {
			scanner.Fail("/root/A", fs.ErrPermission)

			model, _ = model.Update(keyPress(tea.KeyDown))
			model, _ = model.Update(keyPress(tea.KeyRight))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Error))

			scanner.Recover("/root/A")
			model, _ = model.Update(keyPress(tea.KeyRight))
			Expect(states(model.Rows())[0]).To(Equal(filetree.Expanded))
		})

		It("jumps to the first and last rows", func() {
			model, _ = model.Update(keyPress(tea.KeyEnd))
			Expect(model.SelectedIndex()).To(Equal(1))

			model, _ = model.Update(keyPress(tea.KeyHome))
			Expect(model.SelectedIndex()).To(Equal(0))
		})

		It("ignores action keys without a selection", func() {
			_, cmd := model.Update(keyPress(tea.KeyEnter))
			Expect(cmd).To(BeNil())
		})
	})

	Describe("View", func() {
		It("renders one line per visible row", func() {
			Expect(stripANSI(model.View())).To(Equal("▸ A\n· b.txt"))
		})

		It("is stable across repeated calls without scanning", func() {
			calls := scanner.TotalCalls()
			first := model.View()

			Expect(model.View()).To(Equal(first))
			Expect(scanner.TotalCalls()).To(Equal(calls))
		})

		It("truncates to the configured width", func() {
			model.SetWidth(3)
			Expect(stripANSI(model.View())).To(Equal("▸ A\n· b"))
		})
	})
})
