package internal

import (
	"fmt"
	"slices"
)

// Runtime is the per-goroutine ambient state: the unhandled-error
// hooks and the dispatcher that delivers unhandled errors on a fresh
// turn instead of the triggering call stack.
type Runtime struct {
	dispatcher *QueueScheduler
	hooks      []*func(error)
}

func NewRuntime() *Runtime {
	return &Runtime{
		dispatcher: NewQueueScheduler(),
	}
}

// OnUnhandled registers a hook receiving every unhandled error raised
// on this goroutine's runtime. The returned function removes it.
func (r *Runtime) OnUnhandled(fn func(error)) func() {
	entry := &fn
	r.hooks = append(r.hooks, entry)

	return func() {
		if i := slices.Index(r.hooks, entry); i >= 0 {
			r.hooks = slices.Delete(r.hooks, i, i+1)
		}
	}
}

// ReportUnhandled surfaces an error that reached a terminal boundary
// with nobody left to deliver it to. With hooks installed it is
// dispatched to them as a zero-delay action on the runtime's own
// queue, keeping the producer's delivery loop intact. With no hooks it
// escapes as a panic on a fresh goroutine, where no local recover
// around the triggering call can intercept it.
func (r *Runtime) ReportUnhandled(err error) {
	hooks := slices.Clone(r.hooks)
	if len(hooks) == 0 {
		go func() {
			panic(&UnhandledError{Err: err})
		}()
		return
	}

	r.dispatcher.Schedule(0, func(*Action) {
		for _, hook := range hooks {
			(*hook)(err)
		}
	})
}

// UnhandledError wraps an error notification that had no consumer
// handler anywhere in its destination chain.
type UnhandledError struct {
	Err error
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("unhandled error: %v", e.Err)
}

func (e *UnhandledError) Unwrap() error {
	return e.Err
}
