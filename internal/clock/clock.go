package clock

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was stopped.
	Stop() bool
}

// Clock provides current time and deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall clock.
type Real struct{}

// Now returns current time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc runs f in its own goroutine after d.
func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

var _ Clock = Real{}
