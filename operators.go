package rx

import "github.com/AnatoleLucet/rx/internal"

// Map transforms each value with project. A panic inside project is
// caught at this operator's boundary and routed to the destination's
// error channel, never into the upstream producer.
func Map[T, R any](o Observable[T], project func(v T) R) Observable[R] {
	return Observable[R]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewOperatorSubscriber(dest, func(v any) {
			dest.OnNext(project(as[T](v)))
		}, nil, nil)
	})}
}

// Filter forwards only the values predicate accepts.
func Filter[T any](o Observable[T], predicate func(v T) bool) Observable[T] {
	return Observable[T]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewOperatorSubscriber(dest, func(v any) {
			if predicate(as[T](v)) {
				dest.OnNext(v)
			}
		}, nil, nil)
	})}
}

// Take forwards the first count values then completes, detaching from
// the source.
func Take[T any](o Observable[T], count int) Observable[T] {
	if count <= 0 {
		return Empty[T]()
	}

	return Observable[T]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		seen := 0

		var sub *internal.Subscriber
		sub = internal.NewOperatorSubscriber(dest, func(v any) {
			seen++
			if seen > count {
				return
			}

			dest.OnNext(v)
			if seen == count {
				sub.OnComplete()
			}
		}, nil, nil)

		return sub
	})}
}

// Tap runs side-effect handlers on each notification without altering
// the stream.
func Tap[T any](o Observable[T], on On[T]) Observable[T] {
	return Observable[T]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewOperatorSubscriber(dest, func(v any) {
			if on.Next != nil {
				on.Next(as[T](v))
			}
			dest.OnNext(v)
		}, func(err error) {
			if on.Error != nil {
				on.Error(err)
			}
			dest.OnError(err)
		}, func() {
			if on.Complete != nil {
				on.Complete()
			}
			dest.OnComplete()
		})
	})}
}
