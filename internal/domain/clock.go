package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps Summary.ComputedAt and the last-success gauge.
var clock = clockwork.NewRealClock()

// SetClock replaces the package clock. nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Now reads the package clock.
func Now() time.Time {
	return clock.Now()
}
