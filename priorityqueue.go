package coro

import "sort"

type lesser[E any] interface {
	less(v E) bool
}

// priorityqueue keeps its elements sorted at insertion time.
// Binary-search insertion places an element after any equal ones, so
// elements of equal rank happen to leave in arrival order, though nothing
// depends on that.
type priorityqueue[E lesser[E]] struct {
	items []E
}

func (q *priorityqueue[E]) Len() int {
	return len(q.items)
}

func (q *priorityqueue[E]) Empty() bool {
	return len(q.items) == 0
}

func (q *priorityqueue[E]) Push(v E) {
	i := sort.Search(len(q.items), func(i int) bool {
		return v.less(q.items[i])
	})
	q.items = append(q.items, v)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = v
}

func (q *priorityqueue[E]) Pop() E {
	var zero E
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v
}
