package internal

import (
	"github.com/eapache/queue"
)

// Projection maps an outer value (and its index in the outer stream) to
// the inner Observable that gets flattened into the output.
type Projection func(v any, index int) *Observable

// mergeState is the per-instance bookkeeping of the inner/outer
// flattening protocol every concurrency-limited merge operator shares.
type mergeState struct {
	destination *Subscriber
	project     Projection

	// concurrent <= 0 means unbounded
	concurrent int

	// outer values awaiting a free concurrency slot, FIFO
	buffer *queue.Queue

	active    int
	index     int
	outerDone bool
}

// NewMergeSubscriber returns the outer Subscriber implementing the
// flattening protocol for the given destination, projection, and
// concurrency limit.
func NewMergeSubscriber(destination *Subscriber, project Projection, concurrent int) *Subscriber {
	m := &mergeState{
		destination: destination,
		project:     project,
		concurrent:  concurrent,
		buffer:      queue.New(),
	}

	return NewOperatorSubscriber(destination, m.outerNext, nil, m.outerComplete)
}

func (m *mergeState) outerNext(v any) {
	if m.concurrent > 0 && m.active >= m.concurrent {
		m.buffer.Add(v)
		return
	}

	m.subscribeInner(v)
}

func (m *mergeState) subscribeInner(v any) {
	index := m.index
	m.index++

	// a projection panic propagates to the outer subscriber's capture
	// and from there to the destination's error channel
	inner := m.project(v, index)

	m.active++
	// the inner subscriber forwards next directly to the destination
	// and is a child of it, so cancellation propagates inward
	inner.SubscribeWith(NewOperatorSubscriber(m.destination, nil, nil, m.innerComplete))
}

func (m *mergeState) innerComplete() {
	m.active--

	// admit buffered values while slots are free; with a limit this
	// runs at most once per completion, keeping active at the cap
	for m.buffer.Length() > 0 && (m.concurrent <= 0 || m.active < m.concurrent) {
		m.subscribeInner(m.buffer.Remove())
	}

	m.checkComplete()
}

func (m *mergeState) outerComplete() {
	m.outerDone = true
	m.checkComplete()
}

// checkComplete delivers completion exactly once: only when the outer
// has finished, no inner is active, and nothing is buffered.
func (m *mergeState) checkComplete() {
	if m.outerDone && m.active == 0 && m.buffer.Length() == 0 {
		m.destination.OnComplete()
	}
}

// switchState is the cancel-previous variant of flattening: each outer
// value unsubscribes the inner stream spawned by the one before it.
type switchState struct {
	destination *Subscriber
	project     Projection

	inner     *Subscriber
	index     int
	outerDone bool
}

// NewSwitchSubscriber returns the outer Subscriber for the switching
// flattening strategy.
func NewSwitchSubscriber(destination *Subscriber, project Projection) *Subscriber {
	s := &switchState{
		destination: destination,
		project:     project,
	}

	return NewOperatorSubscriber(destination, s.outerNext, nil, s.outerComplete)
}

func (s *switchState) outerNext(v any) {
	if s.inner != nil {
		s.inner.unsubscribeSafely()
		s.inner = nil
	}

	index := s.index
	s.index++

	inner := s.project(v, index)

	s.inner = NewOperatorSubscriber(s.destination, nil, nil, s.innerComplete)
	inner.SubscribeWith(s.inner)
}

func (s *switchState) innerComplete() {
	s.inner = nil
	if s.outerDone {
		s.destination.OnComplete()
	}
}

func (s *switchState) outerComplete() {
	s.outerDone = true
	if s.inner == nil {
		s.destination.OnComplete()
	}
}
