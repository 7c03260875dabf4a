package rx

import (
	"time"

	"github.com/AnatoleLucet/rx/internal"
)

// Scheduler relocates when notifications are delivered without
// altering who delivers them.
type Scheduler = internal.Scheduler

// Action is one scheduled unit of work; it can reschedule itself.
type Action = internal.Action

// QueueScheduler is the reference queue-based scheduler supporting
// synchronous recursive self-scheduling and delayed execution.
type QueueScheduler = internal.QueueScheduler

// VirtualScheduler runs the same queue discipline against a virtual
// clock, advanced only by explicit flushes.
type VirtualScheduler = internal.VirtualScheduler

func NewQueueScheduler() *QueueScheduler {
	return internal.NewQueueScheduler()
}

func NewVirtualScheduler() *VirtualScheduler {
	return internal.NewVirtualScheduler()
}

// ObserveOn re-emits every notification as a scheduled action with the
// given delay, relocating where downstream work runs. The handoff to
// the scheduler is the only suspension point; everything else stays
// synchronous.
func ObserveOn[T any](o Observable[T], scheduler Scheduler, delay time.Duration) Observable[T] {
	schedule := func(dest *internal.Subscriber, deliver func()) {
		if err := scheduler.Schedule(delay, func(*Action) { deliver() }); err != nil {
			dest.OnError(err)
		}
	}

	return Observable[T]{o.source.Lift(func(dest *internal.Subscriber) *internal.Subscriber {
		return internal.NewOperatorSubscriber(dest, func(v any) {
			schedule(dest, func() { dest.OnNext(v) })
		}, func(err error) {
			schedule(dest, func() { dest.OnError(err) })
		}, func() {
			schedule(dest, func() { dest.OnComplete() })
		})
	})}
}

// SubscribeOn defers the subscription itself to the scheduler, so the
// producer starts on a scheduled turn instead of inside Subscribe.
func SubscribeOn[T any](o Observable[T], scheduler Scheduler, delay time.Duration) Observable[T] {
	return Observable[T]{internal.NewObservable(func(sub *internal.Subscriber) {
		if err := scheduler.Schedule(delay, func(*Action) {
			o.source.SubscribeWith(sub)
		}); err != nil {
			sub.OnError(err)
		}
	})}
}
