package scheduler

import (
	"time"

	"ArticlesDesk/internal/ports"
)

// Timers schedules callbacks on the runtime timer wheel.
type Timers struct{}

var _ ports.Timers = Timers{}

// AfterFunc runs f once after d in its own goroutine.
func (Timers) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
