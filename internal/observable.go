package internal

// Observable is a cold, restartable template describing how to produce
// a notification sequence once subscribed. Nothing happens until
// Subscribe is called; each subscription re-executes the producer from
// scratch.
type Observable struct {
	onSubscribe func(s *Subscriber)
}

func NewObservable(onSubscribe func(s *Subscriber)) *Observable {
	return &Observable{onSubscribe: onSubscribe}
}

// Subscribe wraps the observer into a boundary Subscriber, starts the
// producer, and returns the Subscription handle controlling the whole
// chain.
func (o *Observable) Subscribe(destination Observer) *Subscription {
	s, ok := destination.(*Subscriber)
	if !ok {
		s = NewSubscriber(destination)
	}

	o.SubscribeWith(s)
	return s.Subscription
}

// SubscribeWith runs the producer against an existing Subscriber.
// A panic escaping the producer setup is routed to the subscriber's
// error channel rather than the caller's stack.
func (o *Observable) SubscribeWith(s *Subscriber) {
	if err := capture(func() { o.onSubscribe(s) }); err != nil {
		s.OnError(err)
	}
}

// Operator is a pure transformation from one Subscriber to the
// Subscriber that should be attached upstream in its place.
type Operator func(destination *Subscriber) *Subscriber

// Lift returns a new cold Observable that, on subscription, chains the
// operator's Subscriber between the source and the destination. The
// operator subscriber is a child of the destination's Subscription, so
// tearing down the destination detaches the upstream stage.
func (o *Observable) Lift(op Operator) *Observable {
	return NewObservable(func(destination *Subscriber) {
		o.SubscribeWith(op(destination))
	})
}
