package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Callbacks due
// within an Advance run synchronously on the caller's goroutine, in due order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	c       *Manual
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once the clock is advanced past d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{c: m, at: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and fires due timers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.at
		due.fired = true
		m.mu.Unlock()

		due.f()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].at.Equal(m.timers[j].at) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at.Before(m.timers[j].at)
	})
	if len(m.timers) == 0 || m.timers[0].at.After(target) {
		return nil
	}
	return m.timers[0]
}

func (t *manualTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

var _ Clock = (*Manual)(nil)
