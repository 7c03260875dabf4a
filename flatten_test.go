package rx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openInners builds a projection whose inner sources emit one value and
// then stay open until completed by hand, while tracking how many are
// active at once.
type openInners struct {
	sinks     map[int]*Sink[string]
	active    int
	maxActive int
}

func newOpenInners() *openInners {
	return &openInners{sinks: map[int]*Sink[string]{}}
}

func (p *openInners) project(v int, _ int) Observable[string] {
	return Create(func(s *Sink[string]) {
		p.active++
		if p.active > p.maxActive {
			p.maxActive = p.active
		}
		p.sinks[v] = s

		s.Add(TeardownFunc(func() { p.active-- }))
		s.Next(fmt.Sprintf("v%d", v))
	})
}

func TestMergeMap(t *testing.T) {
	t.Run("never exceeds the concurrency limit", func(t *testing.T) {
		inners := newOpenInners()
		got := []string{}
		completed := false

		MergeMap(From([]int{1, 2, 3, 4, 5}), inners.project, 2).Subscribe(On[string]{
			Next:     func(v string) { got = append(got, v) },
			Complete: func() { completed = true },
		})

		// two slots busy, the rest buffered
		assert.Equal(t, []string{"v1", "v2"}, got)
		assert.Equal(t, 2, inners.active)
		assert.False(t, completed)

		inners.sinks[1].Complete()
		assert.Equal(t, []string{"v1", "v2", "v3"}, got)
		assert.Equal(t, 2, inners.active)

		inners.sinks[2].Complete()
		inners.sinks[3].Complete()
		assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, got)
		assert.False(t, completed)

		inners.sinks[4].Complete()
		assert.False(t, completed)
		inners.sinks[5].Complete()
		assert.True(t, completed)

		assert.Equal(t, 2, inners.maxActive)
		assert.Equal(t, 0, inners.active)
	})

	t.Run("completion waits for outer, actives, and buffer", func(t *testing.T) {
		inners := newOpenInners()
		completed := false

		outer := NewSubject[int]()
		MergeMap(outer.Observable(), inners.project, 1).Subscribe(On[string]{
			Complete: func() { completed = true },
		})

		outer.Next(1)
		outer.Next(2) // buffered
		outer.Complete()
		assert.False(t, completed)

		inners.sinks[1].Complete()
		assert.False(t, completed) // 2 was still buffered

		inners.sinks[2].Complete()
		assert.True(t, completed)
	})

	t.Run("unbounded admits everything immediately", func(t *testing.T) {
		inners := newOpenInners()

		MergeMap(From([]int{1, 2, 3, 4}), inners.project, Unbounded).
			Subscribe(On[string]{})

		assert.Equal(t, 4, inners.maxActive)
	})

	t.Run("a panicking projection errors the output and stops", func(t *testing.T) {
		log := []string{}

		MergeMap(From([]int{1, 2, 3}), func(v int, _ int) Observable[string] {
			if v == 2 {
				panic("bad projection")
			}
			return Of(fmt.Sprintf("v%d", v))
		}, Unbounded).Subscribe(On[string]{
			Next:  func(v string) { log = append(log, v) },
			Error: func(err error) { log = append(log, "error "+err.Error()) },
		})

		assert.Equal(t, []string{"v1", "error bad projection"}, log)
	})

	t.Run("cancelling the output tears down active inners", func(t *testing.T) {
		inners := newOpenInners()

		sub := MergeMap(From([]int{1, 2}), inners.project, Unbounded).
			Subscribe(On[string]{})

		assert.Equal(t, 2, inners.active)
		require.NoError(t, sub.Unsubscribe())
		assert.Equal(t, 0, inners.active)
	})
}

func TestConcatMap(t *testing.T) {
	t.Run("processes strictly sequentially", func(t *testing.T) {
		got := []string{}
		completed := false

		ConcatMap(Of(1, 2, 3), func(v int, _ int) Observable[string] {
			return Of(fmt.Sprintf("a%d", v), fmt.Sprintf("b%d", v))
		}).Subscribe(On[string]{
			Next:     func(v string) { got = append(got, v) },
			Complete: func() { completed = true },
		})

		assert.Equal(t, []string{"a1", "b1", "a2", "b2", "a3", "b3"}, got)
		assert.True(t, completed)
	})

	t.Run("does not admit the next value until the inner completes", func(t *testing.T) {
		inners := newOpenInners()
		got := []string{}

		ConcatMap(Of(1, 2), inners.project).Subscribe(On[string]{
			Next: func(v string) { got = append(got, v) },
		})

		assert.Equal(t, []string{"v1"}, got)
		assert.Equal(t, 1, inners.maxActive)

		inners.sinks[1].Complete()
		assert.Equal(t, []string{"v1", "v2"}, got)
		assert.Equal(t, 1, inners.maxActive)
	})
}

func TestMergeAll(t *testing.T) {
	t.Run("flattens an observable of observables", func(t *testing.T) {
		got := []int{}

		MergeAll(Of(Of(1, 2), Of(3, 4)), Unbounded).
			Subscribe(On[int]{Next: func(v int) { got = append(got, v) }})

		assert.Equal(t, []int{1, 2, 3, 4}, got)
	})
}

func TestSwitchMap(t *testing.T) {
	t.Run("unsubscribes the previous inner on each outer value", func(t *testing.T) {
		inners := newOpenInners()
		got := []string{}
		completed := false

		outer := NewSubject[int]()
		SwitchMap(outer.Observable(), inners.project).Subscribe(On[string]{
			Next:     func(v string) { got = append(got, v) },
			Complete: func() { completed = true },
		})

		outer.Next(1)
		assert.Equal(t, 1, inners.active)

		outer.Next(2)
		assert.Equal(t, 1, inners.active)
		assert.True(t, inners.sinks[1].Stopped())
		assert.Equal(t, []string{"v1", "v2"}, got)

		outer.Complete()
		assert.False(t, completed) // inner 2 still running

		inners.sinks[2].Complete()
		assert.True(t, completed)
		assert.Equal(t, 1, inners.maxActive)
	})

	t.Run("completes immediately when no inner is active", func(t *testing.T) {
		completed := false

		SwitchAll(Empty[Observable[int]]()).Subscribe(On[int]{
			Complete: func() { completed = true },
		})

		assert.True(t, completed)
	})
}
