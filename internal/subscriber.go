package internal

// Subscriber composes a Subscription (lifecycle) with an Observer
// (notification handling) and forwards transformed notifications to a
// destination. After a terminal notification, or once the underlying
// Subscription is closed, every further notification is silently
// dropped.
type Subscriber struct {
	*Subscription

	destination Observer
	stopped     bool

	// consumer marks the boundary subscriber wrapping the raw handler
	// set supplied by user code; panics from those handlers have no
	// operator boundary above them to recover at
	consumer bool

	// optional operator overrides, run instead of plain forwarding
	next     func(v any)
	fail     func(err error)
	complete func()
}

// NewSubscriber wraps a raw observer into the boundary Subscriber that
// sits at the bottom of an operator chain.
func NewSubscriber(destination Observer) *Subscriber {
	return &Subscriber{
		Subscription: NewSubscription(),
		destination:  destination,
		consumer:     true,
	}
}

// NewOperatorSubscriber builds a Subscriber whose behavior is given by
// the override callbacks; a nil override falls back to forwarding the
// notification to the destination unchanged. The new Subscriber is
// registered as a child of the destination's Subscription so closing
// the destination detaches the upstream chain.
func NewOperatorSubscriber(destination *Subscriber, next func(v any), fail func(err error), complete func()) *Subscriber {
	s := &Subscriber{
		Subscription: NewSubscription(),
		destination:  destination,
		next:         next,
		fail:         fail,
		complete:     complete,
	}
	destination.Add(s.Subscription)

	return s
}

// Stopped reports whether the subscriber has seen a terminal
// notification or has been unsubscribed. Producers driving a tight
// synchronous loop are expected to check this between emissions.
func (s *Subscriber) Stopped() bool {
	return s.stopped || s.Closed()
}

func (s *Subscriber) OnNext(v any) {
	if s.Stopped() {
		return
	}

	if s.next != nil {
		if err := capture(func() { s.next(v) }); err != nil {
			s.OnError(err)
		}
		return
	}

	if s.consumer {
		if err := capture(func() { s.destination.OnNext(v) }); err != nil {
			GetRuntime().ReportUnhandled(err)
		}
		return
	}

	s.destination.OnNext(v)
}

func (s *Subscriber) OnError(err error) {
	if s.Stopped() {
		return
	}
	s.stopped = true
	defer s.unsubscribeSafely()

	if s.fail != nil {
		if e := capture(func() { s.fail(err) }); e != nil {
			s.deliverError(e)
		}
		return
	}

	if s.consumer {
		if e := capture(func() { s.deliverError(err) }); e != nil {
			GetRuntime().ReportUnhandled(e)
		}
		return
	}

	s.deliverError(err)
}

func (s *Subscriber) OnComplete() {
	if s.Stopped() {
		return
	}
	s.stopped = true
	defer s.unsubscribeSafely()

	if s.complete != nil {
		if err := capture(s.complete); err != nil {
			s.deliverError(err)
		}
		return
	}

	if s.consumer {
		if err := capture(s.destination.OnComplete); err != nil {
			GetRuntime().ReportUnhandled(err)
		}
		return
	}

	s.destination.OnComplete()
}

// deliverError pushes an error down the destination chain, unless any
// link in that chain is already terminated, in which case delivery
// would resurrect a finished observer and the error goes to the
// unhandled channel instead.
func (s *Subscriber) deliverError(err error) {
	if canReport(s.destination) {
		s.destination.OnError(err)
		return
	}

	GetRuntime().ReportUnhandled(err)
}

// canReport walks the destination chain; any stopped link blocks
// delivery through it.
func canReport(destination Observer) bool {
	for {
		sub, ok := destination.(*Subscriber)
		if !ok {
			return true
		}
		if sub.Stopped() {
			return false
		}

		destination = sub.destination
	}
}

// capture runs fn and converts a panic out of it into an error.
func capture(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()

	fn()
	return nil
}
