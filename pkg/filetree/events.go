package filetree

// Event is the interface implemented by all tree events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// ScanStarted is emitted before a directory is listed.
type ScanStarted struct {
	Path string
}

func (ScanStarted) isEvent() {}

// ScanCompleted is emitted after a directory was listed.
type ScanCompleted struct {
	Path    string
	Entries int
}

func (ScanCompleted) isEvent() {}

// ScanFailed is emitted when listing a directory failed; the node is now in the Error state.
type ScanFailed struct {
	Path string
	Err  *ScanError
}

func (ScanFailed) isEvent() {}

// NodeToggled is emitted after a toggle changed a node's state.
type NodeToggled struct {
	Path  string
	State State
}

func (NodeToggled) isEvent() {}

// PathSelected is emitted when the selection moves.
type PathSelected struct {
	Path string
}

func (PathSelected) isEvent() {}
