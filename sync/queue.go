package sync

import (
	"context"
	"fmt"
)

// Adapted from the slides for "Rethinking Classical Concurrency Patterns" by Bryan C. Mills.

// Order selects which pending element Receive hands out.
type Order int

const (
	// LIFO hands out the most recently sent element first.
	LIFO Order = iota
	// FIFO hands out the oldest pending element first.
	FIFO
)

func (o Order) String() string {
	switch o {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return fmt.Sprintf("unknown order: %d", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "lifo":
		return LIFO, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown queue order: %q", s)
	}
}

func (o Order) MarshalText() ([]byte, error) {
	if o != LIFO && o != FIFO {
		return nil, fmt.Errorf("unknown queue order: %d", int(o))
	}

	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(b []byte) error {
	v, err := ParseOrder(string(b))
	if err != nil {
		return err
	}

	*o = v
	return nil
}

// Queue is an unbounded handoff queue. Send never blocks on capacity and wakes
// at most one blocked receiver. Every sent element is delivered to exactly one
// Receive.
//
// Exactly one of items and empty holds a value at any time, so whoever takes
// that value owns the pending elements until it puts one back.
type Queue[T any] struct {
	order Order
	items chan []T  // contains 0 or 1 non-empty slices
	empty chan bool // contains true if items is empty
}

func NewQueue[T any](order Order) *Queue[T] {
	items := make(chan []T, 1)
	empty := make(chan bool, 1)
	empty <- true
	return &Queue[T]{order: order, items: items, empty: empty}
}

func (q *Queue[T]) Order() Order {
	return q.order
}

func (q *Queue[T]) Send(item T) {
	var items []T
	select {
	case items = <-q.items:
	case <-q.empty:
	}
	items = append(items, item)
	q.items <- items
}

// Receive blocks until an element is pending and removes it.
func (q *Queue[T]) Receive() T {
	return q.take(<-q.items)
}

// ReceiveContext is like Receive but gives up when ctx is done. Nothing is
// removed from the queue in that case.
func (q *Queue[T]) ReceiveContext(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case items := <-q.items:
		return q.take(items), nil
	}
}

func (q *Queue[T]) TryReceive() (T, bool) {
	select {
	case items := <-q.items:
		return q.take(items), true
	case <-q.empty:
		q.empty <- true
		var zero T
		return zero, false
	}
}

func (q *Queue[T]) Len() int {
	select {
	case items := <-q.items:
		n := len(items)
		q.items <- items
		return n
	case <-q.empty:
		q.empty <- true
		return 0
	}
}

// take must be called with ownership of a non-empty items slice.
func (q *Queue[T]) take(items []T) T {
	var item T
	var zero T

	if q.order == FIFO {
		item = items[0]
		items[0] = zero
		items = items[1:]
	} else {
		last := len(items) - 1
		item = items[last]
		items[last] = zero
		items = items[:last]
	}

	if len(items) == 0 {
		q.empty <- true
	} else {
		q.items <- items
	}

	return item
}
