package paging

import "time"

// Timer is a pending callback created by a [Scheduler].
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler creates timers. It exists so that tests can drive time
// deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler is a [Scheduler] backed by [time.AfterFunc].
type SystemScheduler struct{}

// AfterFunc implements [Scheduler].
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
