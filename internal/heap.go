package internal

// actionHeap is a binary min-heap of scheduler actions ordered by due
// time, with a monotonic sequence number breaking ties so actions that
// share a due time run in enqueue order.
type actionHeap struct {
	actions []*Action
}

func (h *actionHeap) Len() int {
	return len(h.actions)
}

func (h *actionHeap) Push(a *Action) {
	h.actions = append(h.actions, a)
	h.up(len(h.actions) - 1)
}

// Peek returns the earliest due action without removing it.
func (h *actionHeap) Peek() *Action {
	if len(h.actions) == 0 {
		return nil
	}

	return h.actions[0]
}

// Pop removes and returns the earliest due action.
func (h *actionHeap) Pop() *Action {
	n := len(h.actions)
	if n == 0 {
		return nil
	}

	top := h.actions[0]
	h.actions[0] = h.actions[n-1]
	h.actions[n-1] = nil
	h.actions = h.actions[:n-1]
	h.down(0)

	return top
}

// Clear drops every queued action.
func (h *actionHeap) Clear() {
	h.actions = h.actions[:0]
}

func (h *actionHeap) less(i, j int) bool {
	a, b := h.actions[i], h.actions[j]
	if a.due.Equal(b.due) {
		return a.seq < b.seq
	}

	return a.due.Before(b.due)
}

func (h *actionHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			return
		}

		h.actions[i], h.actions[parent] = h.actions[parent], h.actions[i]
		i = parent
	}
}

func (h *actionHeap) down(i int) {
	n := len(h.actions)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i

		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}

		h.actions[i], h.actions[smallest] = h.actions[smallest], h.actions[i]
		i = smallest
	}
}
