// Package clock abstracts the wall clock so that anchors and calendar
// projections can be tested deterministically.
package clock

import "time"

// Clock abstracts time.Now().
// The session uses it to stamp local anchors, the calendar to determine "today".
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the standard time package.
type Real struct{}

// Now returns the current local time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
