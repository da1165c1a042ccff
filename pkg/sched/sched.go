// Package sched is a cooperative, single-threaded event queue. Callbacks run
// to completion from Tick, which the frame loop calls once per frame; there
// is no goroutine and no locking.
package sched

import (
	"time"

	"github.com/bee-mcc/ispy/pkg/timer"
)

// Task is a scheduled callback. The zero value is not usable; get one from
// Scheduler.After.
type Task struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
}

// Cancel removes the task from the queue. It reports whether the task was
// still pending. A nil task is allowed so callers can cancel optional timers
// without checking.
func (t *Task) Cancel() bool {
	if t == nil || t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// Pending reports whether the task will still fire.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && !t.fired
}

type Scheduler struct {
	clock   timer.Clock
	seq     uint64
	queue   []*Task
	running *Task
}

func New(clock timer.Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// now is the scheduling base. Inside a callback it is the firing task's due
// time, so chained timers (countdown ticks) do not drift with frame jitter.
func (s *Scheduler) now() time.Time {
	if s.running != nil {
		return s.running.due
	}
	return s.clock.Now()
}

// After schedules fn to run d from now.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{due: s.now().Add(d), seq: s.seq, fn: fn}
	s.queue = append(s.queue, t)
	return t
}

// Tick runs every task that is due, earliest first, ties broken by
// scheduling order. Tasks scheduled by a callback run in the same Tick if
// they are already due. It returns the number of callbacks run.
func (s *Scheduler) Tick() int {
	now := s.clock.Now()
	ran := 0
	for {
		t := s.next(now)
		if t == nil {
			break
		}
		t.fired = true
		s.running = t
		t.fn()
		s.running = nil
		ran++
	}
	s.compact()
	return ran
}

func (s *Scheduler) next(now time.Time) *Task {
	var best *Task
	for _, t := range s.queue {
		if !t.Pending() || t.due.After(now) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.queue[:0]
	for _, t := range s.queue {
		if t.Pending() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.queue); i++ {
		s.queue[i] = nil
	}
	s.queue = live
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.queue {
		if t.Pending() {
			n++
		}
	}
	return n
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.queue {
		t.Cancel()
	}
	s.compact()
}
