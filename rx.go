// Package rx is a reactive-composition runtime: primitives for
// describing synchronous or asynchronous sequences of values and
// safely composing, transforming, and tearing them down.
package rx

import (
	"github.com/AnatoleLucet/rx/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Subscription is a handle on an active resource acquisition. It
// supports idempotent release and child registration.
type Subscription = internal.Subscription

// NewSubscription creates a standalone subscription, useful as an
// explicit parent for resources managed outside an operator chain.
func NewSubscription() *Subscription {
	return internal.NewSubscription()
}

// Teardown is a release action run when a Subscription closes: either
// a TeardownFunc or a child *Subscription.
type Teardown = internal.Teardown

// TeardownFunc is a plain release function.
type TeardownFunc = internal.TeardownFunc

// TeardownError aggregates the failures of a single Unsubscribe.
type TeardownError = internal.TeardownError

// UnhandledError wraps an error that had no consumer handler.
type UnhandledError = internal.UnhandledError

// Observable is a cold, restartable template for a notification
// sequence of T's. Nothing runs until Subscribe is called, and each
// subscription restarts the producer from scratch.
type Observable[T any] struct {
	source *internal.Observable
}

// On is a partial observer: any subset of handlers may be set. An
// error delivered while Error is nil goes to the unhandled-error hook
// installed with OnUnhandledError.
type On[T any] struct {
	Next     func(v T)
	Error    func(err error)
	Complete func()
}

// Observer is the full three-channel notification contract.
type Observer[T any] interface {
	Next(v T)
	Error(err error)
	Complete()
}

// Subscribe starts the producer and returns the Subscription that
// tears the whole chain down.
func (o Observable[T]) Subscribe(on On[T]) *Subscription {
	return o.source.Subscribe(on.funcs())
}

// SubscribeObserver subscribes a full observer.
func (o Observable[T]) SubscribeObserver(observer Observer[T]) *Subscription {
	return o.Subscribe(On[T]{
		Next:     observer.Next,
		Error:    observer.Error,
		Complete: observer.Complete,
	})
}

func (on On[T]) funcs() internal.ObserverFuncs {
	funcs := internal.ObserverFuncs{
		Error:    on.Error,
		Complete: on.Complete,
	}
	if on.Next != nil {
		funcs.Next = func(v any) { on.Next(as[T](v)) }
	}

	return funcs
}

// Sink is the producer-side handle a Create function drives. Producers
// running a tight synchronous loop must check Stopped between
// emissions so cancellation bounds their work.
type Sink[T any] struct {
	sub *internal.Subscriber
}

func (s *Sink[T]) Next(v T) {
	s.sub.OnNext(v)
}

func (s *Sink[T]) Error(err error) {
	s.sub.OnError(err)
}

func (s *Sink[T]) Complete() {
	s.sub.OnComplete()
}

// Stopped reports whether the consumer has unsubscribed or a terminal
// notification has been delivered.
func (s *Sink[T]) Stopped() bool {
	return s.sub.Stopped()
}

// Add registers a teardown tied to this subscription, typically the
// producer's own resources. The returned handle can be passed to the
// Subscription's Remove.
func (s *Sink[T]) Add(t Teardown) Teardown {
	return s.sub.Add(t)
}

// Create builds an Observable from a producer function. The producer
// runs once per subscription; a panic escaping it is routed to the
// subscriber's error channel.
func Create[T any](producer func(s *Sink[T])) Observable[T] {
	return Observable[T]{internal.NewObservable(func(sub *internal.Subscriber) {
		producer(&Sink[T]{sub: sub})
	})}
}

// OnUnhandledError installs a hook intercepting errors that reach a
// terminal boundary with no handler left to deliver them to, on the
// calling goroutine's runtime. The returned function removes the hook.
// With no hook installed such errors escape as a panic on a fresh
// goroutine.
func OnUnhandledError(fn func(err error)) func() {
	return internal.GetRuntime().OnUnhandled(fn)
}
