package services

import "time"

// Clock supplies wall-clock time for deletion stamps, retention cutoffs and
// recovery-tree expiry.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// clockOrSystem returns c, or SystemClock when c is nil.
func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
