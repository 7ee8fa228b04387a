package widget

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-tree/pkg/filesystem"
	"github.com/joe/file-tree/pkg/filetree"
)

// DefaultDoubleClickInterval is the longest gap between two presses on the same
// row that still counts as a double click.
const DefaultDoubleClickInterval = 400 * time.Millisecond

// Option configures a Model.
type Option func(*options)

type options struct {
	onDoubleClick       func(path string) tea.Msg
	onSelect            func(path string) tea.Msg
	showHidden          bool
	caseSensitive       bool
	ignore              []string
	fsys                filesystem.FileSystem
	scanner             filetree.Scanner
	style               Style
	keys                KeyMap
	doubleClickInterval time.Duration
	clock               Clock
	emitter             filetree.EventEmitter
	logFile             string
}

func defaultOptions() options {
	return options{
		caseSensitive:       true,
		style:               DefaultStyle(),
		keys:                DefaultKeyMap(),
		doubleClickInterval: DefaultDoubleClickInterval,
		clock:               &RealClock{},
	}
}

// OnDoubleClick sets the message produced when a row is activated by a double
// click or the activate key. Without it, activation is dropped.
func OnDoubleClick(fn func(path string) tea.Msg) Option {
	return func(o *options) {
		o.onDoubleClick = fn
	}
}

// OnSelect sets the message produced when a click or key moves the selection.
// Selection is always handled internally; the message is only sent when set.
func OnSelect(fn func(path string) tea.Msg) Option {
	return func(o *options) {
		o.onSelect = fn
	}
}

// ShowHidden includes dot-prefixed entries.
func ShowHidden(show bool) Option {
	return func(o *options) {
		o.showHidden = show
	}
}

// SortCaseSensitive selects case-sensitive ordering of names (the default).
func SortCaseSensitive(caseSensitive bool) Option {
	return func(o *options) {
		o.caseSensitive = caseSensitive
	}
}

// ShowExtensions controls whether file names are displayed with their extension.
func ShowExtensions(show bool) Option {
	return func(o *options) {
		o.style.ShowExtensions = show
	}
}

// Ignore hides entries matching any of the doublestar patterns.
func Ignore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithFileSystem reads directories through fsys instead of the local disk.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithScanner replaces the filesystem scanner entirely. ShowHidden, Ignore and
// WithFileSystem have no effect when it is set.
func WithScanner(scanner filetree.Scanner) Option {
	return func(o *options) {
		o.scanner = scanner
	}
}

// WithIcons replaces the row icons.
func WithIcons(icons Icons) Option {
	return func(o *options) {
		o.style.Icons = icons
	}
}

// WithStyle replaces the whole row style.
func WithStyle(style Style) Option {
	return func(o *options) {
		o.style = style
	}
}

// WithKeyMap replaces the keyboard bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(o *options) {
		o.keys = keys
	}
}

// DoubleClickInterval overrides DefaultDoubleClickInterval.
func DoubleClickInterval(interval time.Duration) Option {
	return func(o *options) {
		o.doubleClickInterval = interval
	}
}

// WithClock replaces the clock used for double-click timing.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEventEmitter forwards tree events to emitter.
func WithEventEmitter(emitter filetree.EventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}

// LogFile writes a debug log of scans and toggles to path.
func LogFile(path string) Option {
	return func(o *options) {
		o.logFile = path
	}
}
