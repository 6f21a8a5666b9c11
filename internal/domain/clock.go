package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for report timestamps and the
// server-rendered clock. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ClockText formats the current local time the way the dashboard clock
// displays it (24-hour HH:MM). The page script keeps the same format when it
// takes over ticking in the browser.
func ClockText(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return clock.Now().In(loc).Format("15:04")
}
