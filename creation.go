package rx

import "time"

// Of emits the given values in order, then completes.
func Of[T any](values ...T) Observable[T] {
	return From(values)
}

// From emits every element of the slice in order, then completes.
func From[T any](values []T) Observable[T] {
	return Create(func(s *Sink[T]) {
		for _, v := range values {
			if s.Stopped() {
				return
			}
			s.Next(v)
		}

		s.Complete()
	})
}

// Empty completes immediately without emitting.
func Empty[T any]() Observable[T] {
	return Create(func(s *Sink[T]) {
		s.Complete()
	})
}

// Throw errors immediately with the given error.
func Throw[T any](err error) Observable[T] {
	return Create(func(s *Sink[T]) {
		s.Error(err)
	})
}

// Never neither emits nor terminates.
func Never[T any]() Observable[T] {
	return Create(func(s *Sink[T]) {})
}

// Range emits count consecutive integers starting at start.
func Range(start, count int) Observable[int] {
	return Create(func(s *Sink[int]) {
		for i := 0; i < count; i++ {
			if s.Stopped() {
				return
			}
			s.Next(start + i)
		}

		s.Complete()
	})
}

// Defer waits until subscription time to build the actual source, so
// each subscriber gets a fresh one.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return Create(func(s *Sink[T]) {
		factory().source.SubscribeWith(s.sub)
	})
}

// Timer emits a single zero after the delay on the given scheduler,
// then completes.
func Timer(delay time.Duration, scheduler Scheduler) Observable[int] {
	return Create(func(s *Sink[int]) {
		if err := scheduler.Schedule(delay, func(*Action) {
			s.Next(0)
			s.Complete()
		}); err != nil {
			s.Error(err)
		}
	})
}
