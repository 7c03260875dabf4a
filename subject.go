package rx

import (
	"slices"

	"github.com/AnatoleLucet/rx/internal"
)

// Subject is a hot multicast source: values pushed with Next are
// delivered to every current subscriber. After Error or Complete the
// subject is terminal; late subscribers immediately receive the
// terminal notification and nothing else.
type Subject[T any] struct {
	observers []*internal.Subscriber

	stopped bool
	err     error
	hasErr  bool
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Observable exposes the subject's consumer side.
func (s *Subject[T]) Observable() Observable[T] {
	return Observable[T]{internal.NewObservable(s.onSubscribe)}
}

// Subscribe attaches a consumer to the subject.
func (s *Subject[T]) Subscribe(on On[T]) *Subscription {
	return s.Observable().Subscribe(on)
}

func (s *Subject[T]) onSubscribe(sub *internal.Subscriber) {
	if s.hasErr {
		sub.OnError(s.err)
		return
	}
	if s.stopped {
		sub.OnComplete()
		return
	}

	s.observers = append(s.observers, sub)
	sub.Add(TeardownFunc(func() {
		if i := slices.Index(s.observers, sub); i >= 0 {
			s.observers = slices.Delete(s.observers, i, i+1)
		}
	}))
}

func (s *Subject[T]) Next(v T) {
	if s.stopped {
		return
	}

	// cloning to avoid mutation during iteration
	for _, o := range slices.Clone(s.observers) {
		o.OnNext(v)
	}
}

func (s *Subject[T]) Error(err error) {
	if s.stopped {
		return
	}
	s.stopped = true
	s.err = err
	s.hasErr = true

	observers := s.observers
	s.observers = nil
	for _, o := range observers {
		o.OnError(err)
	}
}

func (s *Subject[T]) Complete() {
	if s.stopped {
		return
	}
	s.stopped = true

	observers := s.observers
	s.observers = nil
	for _, o := range observers {
		o.OnComplete()
	}
}
