package internal

import (
	"time"
)

// Work is one unit of scheduled work. Through the Action it may
// reschedule itself for a later turn.
type Work func(a *Action)

// Scheduler relocates when a unit of work executes without changing
// who executes it. Variants differ only in where "due time" elapsing
// comes from.
type Scheduler interface {
	// Schedule enqueues work to run once the delay has elapsed.
	// A panic escaping a scheduled action surfaces as the returned
	// error of the Schedule call whose flush ran it.
	Schedule(delay time.Duration, work Work) error

	Now() time.Time
}

type ActionState int

const (
	ActionPending ActionState = iota
	ActionExecuting
	ActionDone
)

// Action is one scheduled unit of work with its due time and state.
type Action struct {
	core *schedulerCore

	work  Work
	due   time.Time
	seq   uint64
	state ActionState
}

func (a *Action) State() ActionState {
	return a.state
}

// Reschedule re-enqueues the action to run again after the delay.
// Only meaningful while the action is executing.
func (a *Action) Reschedule(delay time.Duration) {
	a.due = a.core.now().Add(delay)
	a.seq = a.core.nextSeq()
	a.state = ActionPending
	a.core.queue.Push(a)
}

// schedulerCore is the queue discipline shared by the real-time and
// virtual-time schedulers: a due-time heap plus a flushing guard that
// keeps recursive scheduling from nesting flush loops.
type schedulerCore struct {
	queue    actionHeap
	seq      uint64
	flushing bool

	now  func() time.Time
	wait func(due time.Time)
}

func (c *schedulerCore) nextSeq() uint64 {
	c.seq++
	return c.seq
}

func (c *schedulerCore) enqueue(delay time.Duration, work Work) *Action {
	a := &Action{
		core:  c,
		work:  work,
		due:   c.now().Add(delay),
		seq:   c.nextSeq(),
		state: ActionPending,
	}
	c.queue.Push(a)

	return a
}

// flush drains the queue in due-time order. If called while a flush is
// already running it returns immediately: the running loop picks up
// whatever was enqueued, bounding stack depth no matter how many
// actions an action schedules. A panic out of an action's work is
// recovered, the queue and the flushing flag are reset so the next
// Schedule starts fresh, and the panic is returned as an error.
func (c *schedulerCore) flush(horizon *time.Time) (err error) {
	if c.flushing {
		return nil
	}
	c.flushing = true

	defer func() {
		c.flushing = false
		if r := recover(); r != nil {
			c.queue.Clear()
			err = toError(r)
		}
	}()

	for c.queue.Len() > 0 {
		if horizon != nil && c.queue.Peek().due.After(*horizon) {
			break
		}

		a := c.queue.Pop()
		if a.due.After(c.now()) {
			c.wait(a.due)
		}

		a.state = ActionExecuting
		a.work(a)
		if a.state == ActionExecuting {
			a.state = ActionDone
		}
	}

	return nil
}

// QueueScheduler is the reference queue-based scheduler: synchronous,
// reentrancy-safe, with real-time delays. Scheduling from inside a
// running action appends to the active flush instead of nesting one.
type QueueScheduler struct {
	core schedulerCore
}

func NewQueueScheduler() *QueueScheduler {
	s := &QueueScheduler{}
	s.core.now = time.Now
	s.core.wait = func(due time.Time) {
		time.Sleep(time.Until(due))
	}

	return s
}

func (s *QueueScheduler) Schedule(delay time.Duration, work Work) error {
	s.core.enqueue(delay, work)
	return s.core.flush(nil)
}

func (s *QueueScheduler) Now() time.Time {
	return time.Now()
}

// VirtualScheduler has the same queue discipline but advances a virtual
// clock instead of waiting, and only runs when explicitly flushed.
type VirtualScheduler struct {
	core  schedulerCore
	start time.Time
	clock time.Time
}

func NewVirtualScheduler() *VirtualScheduler {
	s := &VirtualScheduler{}
	s.start = s.clock
	s.core.now = func() time.Time { return s.clock }
	s.core.wait = func(due time.Time) { s.clock = due }

	return s
}

func (s *VirtualScheduler) Schedule(delay time.Duration, work Work) error {
	s.core.enqueue(delay, work)
	return nil
}

func (s *VirtualScheduler) Now() time.Time {
	return s.clock
}

// Elapsed returns how much virtual time has passed.
func (s *VirtualScheduler) Elapsed() time.Duration {
	return s.clock.Sub(s.start)
}

// Flush runs every queued action, advancing the clock to each action's
// due time.
func (s *VirtualScheduler) Flush() error {
	return s.core.flush(nil)
}

// FlushTo runs only the actions due within the given elapsed time,
// then advances the clock to exactly that point.
func (s *VirtualScheduler) FlushTo(elapsed time.Duration) error {
	horizon := s.start.Add(elapsed)
	err := s.core.flush(&horizon)

	if s.clock.Before(horizon) {
		s.clock = horizon
	}
	return err
}
