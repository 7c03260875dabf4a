package internal

import (
	"fmt"
	"slices"
	"strings"
)

// Teardown is a release action registered on a Subscription.
// It is a closed set: either a TeardownFunc or a child *Subscription.
type Teardown interface {
	teardown() error
}

// TeardownFunc is a plain release function. A panic inside it is
// recovered and reported as an error by the owning Subscription.
type TeardownFunc func()

func (f TeardownFunc) teardown() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()

	f()
	return nil
}

// funcTeardown boxes a TeardownFunc behind a comparable pointer so
// registered entries can be removed by identity.
type funcTeardown struct {
	fn TeardownFunc
}

func (f *funcTeardown) teardown() error {
	return f.fn.teardown()
}

// Subscription is an unsubscribe-once resource handle. It owns an
// ordered list of teardowns, some of which may be child Subscriptions
// forming a tree. Closing a Subscription closes the whole subtree.
type Subscription struct {
	closed    bool
	teardowns []Teardown

	// back-reference to the current owner so an independently closed
	// child can remove itself from its parent's list
	parent *Subscription
}

func NewSubscription() *Subscription {
	return &Subscription{}
}

func (s *Subscription) teardown() error { return s.Unsubscribe() }

// Closed reports whether the subscription has been released.
// The flag is monotonic: once true it never goes back.
func (s *Subscription) Closed() bool {
	return s.closed
}

// Add registers a teardown to run when the subscription closes and
// returns the registered handle, usable with Remove. If the
// subscription is already closed the teardown runs immediately; a
// failure then has no return path and goes to the unhandled channel.
// Adding a child Subscription moves it out of any previous parent.
func (s *Subscription) Add(t Teardown) Teardown {
	if t == nil || t == Teardown(s) {
		return nil
	}

	if s.closed {
		if err := t.teardown(); err != nil {
			GetRuntime().ReportUnhandled(err)
		}
		return nil
	}

	if fn, ok := t.(TeardownFunc); ok {
		t = &funcTeardown{fn: fn}
	}

	if child, ok := t.(*Subscription); ok {
		if child.closed || child.parent == s {
			return child
		}
		if child.parent != nil {
			child.parent.Remove(child)
		}
		child.parent = s
	}

	s.teardowns = append(s.teardowns, t)
	return t
}

// Remove drops a specific teardown without running it.
// It is a no-op if the entry is absent.
func (s *Subscription) Remove(t Teardown) {
	if i := slices.Index(s.teardowns, t); i >= 0 {
		s.teardowns = slices.Delete(s.teardowns, i, i+1)
	}

	if child, ok := t.(*Subscription); ok && child.parent == s {
		child.parent = nil
	}
}

// Unsubscribe closes the subscription and runs every registered
// teardown in insertion order. Every teardown is attempted even when
// earlier ones fail; failures are collected and returned as a single
// *TeardownError. A second call is a no-op.
func (s *Subscription) Unsubscribe() error {
	if s.closed {
		return nil
	}
	// set before running teardowns so reentrant checks see the terminal state
	s.closed = true

	if s.parent != nil {
		s.parent.Remove(s)
	}

	teardowns := s.teardowns
	s.teardowns = nil

	var errs []error
	for _, t := range teardowns {
		if child, ok := t.(*Subscription); ok {
			child.parent = nil
		}

		if err := t.teardown(); err != nil {
			if te, ok := err.(*TeardownError); ok {
				// flatten nested aggregates so the caller sees one flat list
				errs = append(errs, te.Errors...)
			} else {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return &TeardownError{Errors: errs}
	}
	return nil
}

// unsubscribeSafely releases the subscription in a context that has no
// error return path, forwarding any teardown failure to the unhandled
// channel instead of dropping it.
func (s *Subscription) unsubscribeSafely() {
	if err := s.Unsubscribe(); err != nil {
		GetRuntime().ReportUnhandled(err)
	}
}

// TeardownError aggregates every failure raised while a Subscription
// was running its teardowns.
type TeardownError struct {
	Errors []error
}

func (e *TeardownError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("%d teardown error(s) occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *TeardownError) Unwrap() []error {
	return e.Errors
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return fmt.Errorf("%v", r)
}
