package library

import (
	"context"
	"sync"
)

// command is one unit of work for the manager loop. Exactly one of run or
// abort is called.
type command struct {
	run   func(ctx context.Context)
	abort func(err error)
}

// queue is an unbounded FIFO. push never blocks, so commands can be enqueued
// from inside callbacks that run on the loop itself.
type queue struct {
	mu     sync.Mutex
	items  []command
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push appends c. It reports false once the queue is closed.
func (q *queue) push(c command) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, c)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// drain removes and returns everything queued so far.
func (q *queue) drain() []command {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// close rejects further pushes and returns what was still queued.
func (q *queue) close() []command {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	items := q.items
	q.items = nil
	return items
}
