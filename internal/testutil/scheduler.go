package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/riddlechain/internal/schedule"
)

// ManualScheduler is a schedule.Scheduler driven by a virtual clock.
//
// Nothing fires until Advance or FireAll is called, so tests can observe the
// state while a deferred transition is pending and then release it.
// Callbacks run synchronously on the goroutine that advances the clock.
//
// Thread-safety: All methods are safe for concurrent use.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	sched   *ManualScheduler
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler creates a scheduler whose virtual clock starts at 0.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc registers f to run once the virtual clock reaches now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) schedule.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{sched: s, due: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Stop implements schedule.Handle.
func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the virtual clock forward by d and runs every timer that
// falls due, in due-time order. Timers scheduled by those callbacks fire too
// if they fall within the window.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.f()
		fired++
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
	return fired
}

// FireAll runs pending timers until none remain, however far in the future.
// It never returns if a callback keeps rescheduling itself; use Advance for
// periodic timers.
func (s *ManualScheduler) FireAll() int {
	fired := 0
	for {
		s.mu.Lock()
		var target time.Duration
		live := false
		for _, t := range s.timers {
			if !t.stopped && !t.fired && (!live || t.due > target) {
				target = t.due
				live = true
			}
		}
		s.mu.Unlock()
		if !live {
			return fired
		}
		s.mu.Lock()
		d := target - s.now
		s.mu.Unlock()
		fired += s.Advance(d)
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Now returns the virtual clock.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// nextDue marks and returns the earliest live timer due at or before target.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].seq < s.timers[j].seq
	})

	if len(s.timers) == 0 || s.timers[0].due > target {
		return nil
	}
	t := s.timers[0]
	t.fired = true
	if t.due > s.now {
		s.now = t.due
	}
	return t
}
