package rx

import "github.com/AnatoleLucet/rx/internal"

// OnErrorResumeNext subscribes the sources in order, moving to the
// next one whenever the current source errors or completes. Errors are
// discarded entirely: they never reach the consumer. The result
// completes once no sources remain; with no sources it completes
// immediately. Cancelling the result tears down whichever source is
// currently active.
func OnErrorResumeNext[T any](sources ...Observable[T]) Observable[T] {
	return Observable[T]{internal.NewObservable(func(sub *internal.Subscriber) {
		var next func(i int)
		next = func(i int) {
			if sub.Stopped() {
				return
			}
			if i >= len(sources) {
				sub.OnComplete()
				return
			}

			resume := func() { next(i + 1) }
			inner := internal.NewOperatorSubscriber(sub, nil, func(error) { resume() }, resume)
			sources[i].source.SubscribeWith(inner)
		}

		next(0)
	})}
}
