// Package schedule abstracts deferred callbacks so the run state machine and
// the narration pager can be driven by real timers in production and by a
// manual scheduler in tests.
//
// Slot enforces the single-outstanding-timer rule: scheduling into a Slot
// always cancels whatever it held before.
package schedule

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents the callback from firing if it has not already.
	// It reports whether the call stopped it.
	Stop() bool
}

// Scheduler runs f once after d.
//
// Callbacks may run on another goroutine. Callers that share state with f
// must synchronise it themselves.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

// Real schedules on the runtime timer.
type Real struct{}

// AfterFunc implements Scheduler with time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// Slot holds at most one outstanding callback. A callback that fires after
// the slot was reset or stopped is dropped.
//
// Thread-safety: Slot is safe for concurrent use.
type Slot struct {
	mu     sync.Mutex
	sched  Scheduler
	handle Handle
	gen    uint64
}

// NewSlot returns an empty slot bound to sched. A nil sched means Real.
func NewSlot(sched Scheduler) *Slot {
	if sched == nil {
		sched = Real{}
	}
	return &Slot{sched: sched}
}

// Reset cancels the outstanding callback, if any, and schedules f after d.
func (s *Slot) Reset(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Stop()
	}
	s.gen++
	gen := s.gen
	s.handle = s.sched.AfterFunc(d, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.handle = nil
		s.mu.Unlock()
		f()
	})
}

// Stop cancels the outstanding callback and empties the slot. It reports
// whether a callback was pending.
func (s *Slot) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.handle == nil {
		return false
	}
	s.handle.Stop()
	s.handle = nil
	return true
}

// Pending reports whether a callback is scheduled and has not fired.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}
