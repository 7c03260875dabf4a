package rx

import "github.com/AnatoleLucet/rx/internal"

// Unbounded lifts the concurrency cap of a flattening operator: every
// outer value is admitted immediately.
const Unbounded = 0

// MergeMap projects each outer value to an inner Observable and merges
// up to concurrent of them at a time into the output. Values arriving
// while every slot is busy are buffered FIFO and admitted as inners
// complete. The result completes only once the outer has completed,
// every inner has finished, and the buffer is empty.
func MergeMap[T, R any](o Observable[T], project func(v T, index int) Observable[R], concurrent int) Observable[R] {
	return Observable[R]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewMergeSubscriber(dest, func(v any, index int) *internal.Observable {
			return project(as[T](v), index).source
		}, concurrent)
	})}
}

// MergeAll flattens an Observable of Observables, running up to
// concurrent inner sources at once.
func MergeAll[T any](o Observable[Observable[T]], concurrent int) Observable[T] {
	return MergeMap(o, func(inner Observable[T], _ int) Observable[T] {
		return inner
	}, concurrent)
}

// ConcatMap is MergeMap with a concurrency limit of one: strictly
// sequential, the next value is not admitted until the previous inner
// fully completes.
func ConcatMap[T, R any](o Observable[T], project func(v T, index int) Observable[R]) Observable[R] {
	return MergeMap(o, project, 1)
}

// ConcatAll flattens an Observable of Observables one source at a time.
func ConcatAll[T any](o Observable[Observable[T]]) Observable[T] {
	return MergeAll(o, 1)
}

// SwitchMap projects each outer value to an inner Observable,
// unsubscribing the previous inner when a new value arrives.
func SwitchMap[T, R any](o Observable[T], project func(v T, index int) Observable[R]) Observable[R] {
	return Observable[R]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewSwitchSubscriber(dest, func(v any, index int) *internal.Observable {
			return project(as[T](v), index).source
		})
	})}
}

// SwitchAll mirrors only the most recently emitted inner Observable.
func SwitchAll[T any](o Observable[Observable[T]]) Observable[T] {
	return SwitchMap(o, func(inner Observable[T], _ int) Observable[T] {
		return inner
	})
}
