package widget

import "time"

// clickTracker turns a stream of presses into single and double clicks.
// The terminal reports only presses, so a double click is a second press on the
// same row within the interval. A third press starts over as a single click.
type clickTracker struct {
	path string
	at   time.Time
}

// press records a press on path and reports whether it completes a double click.
func (c clickTracker) press(path string, now time.Time, interval time.Duration) (clickTracker, bool) {
	if c.path == path && !c.at.IsZero() && now.Sub(c.at) <= interval {
		return clickTracker{}, true
	}

	return clickTracker{path: path, at: now}, false
}
