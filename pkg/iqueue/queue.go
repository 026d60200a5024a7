// Package iqueue is an intrusive FIFO: the link lives in a caller-allocated
// Node, so Push and Pop never allocate and the queue never owns the values
// it carries.
//
// Ownership of a node passes to the queue on Push and back to the caller on
// Pop. A node must not be reused or freed while it is queued.
package iqueue

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrClosed     = errors.New("iqueue: queue closed")
	ErrNilNode    = errors.New("iqueue: nil node")
	ErrNodeQueued = errors.New("iqueue: node already queued")
)

// Node is a queue link carrying one value.
type Node[T any] struct {
	next   *Node[T]
	queued bool
	Value  T
}

// NewNode is a convenience for heap-allocated nodes.
func NewNode[T any](v T) *Node[T] {
	return &Node[T]{Value: v}
}

// Queued reports whether n is currently linked into a queue.
func (n *Node[T]) Queued() bool {
	return n.queued
}

// Queue is safe for any number of producers and consumers.
type Queue[T any] struct {
	mu     sync.Mutex
	head   *Node[T]
	tail   *Node[T]
	n      int
	closed bool
	// ready has one slot; a pending token means "maybe non-empty".
	ready chan struct{}
	done  chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push appends n.
func (q *Queue[T]) Push(n *Node[T]) error {
	if n == nil {
		return ErrNilNode
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if n.queued {
		q.mu.Unlock()
		return ErrNodeQueued
	}
	n.next = nil
	n.queued = true
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.n++
	q.mu.Unlock()
	q.signal()
	return nil
}

// Pop unlinks and returns the oldest node, or nil when the queue is empty.
func (q *Queue[T]) Pop() *Node[T] {
	q.mu.Lock()
	n := q.head
	if n == nil {
		q.mu.Unlock()
		return nil
	}
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.n--
	more := q.n > 0
	n.next = nil
	n.queued = false
	q.mu.Unlock()
	if more {
		// pass the wake-up on to another waiter
		q.signal()
	}
	return n
}

// PopWait blocks until a node is available, ctx is done, or the queue is
// closed and drained.
func (q *Queue[T]) PopWait(ctx context.Context) (*Node[T], error) {
	for {
		if n := q.Pop(); n != nil {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		case <-q.done:
			if n := q.Pop(); n != nil {
				return n, nil
			}
			return nil, ErrClosed
		}
	}
}

// Len returns the number of queued nodes.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Close rejects further pushes and wakes all waiters. Queued nodes can
// still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
