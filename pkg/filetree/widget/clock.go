package widget

import "time"

// Clock provides the current time for dependency injection.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using time.Now.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually advanced Clock for testing.
type MockClock struct {
	Current time.Time
}

// Now returns the mock's current time.
func (m *MockClock) Now() time.Time {
	return m.Current
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.Current = m.Current.Add(d)
}
