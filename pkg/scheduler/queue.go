package scheduler

import (
	"errors"
	"sync"
)

var errChannelClosed = errors.New("channel closed")

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	var zero T
	old[0] = zero
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

func (wq *queue[T]) Clear() int {
	n := len(*wq)
	*wq = nil
	return n
}

// channel is the FIFO hand-off point between producers and workers.
// A capacity of zero means unbounded; otherwise send blocks while the buffer
// is full. Once closed it accepts nothing, but items already buffered are
// still handed out until the buffer is empty.
type channel[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    queue[T]
	capacity int
	closed   bool
}

func newChannel[T any](capacity int) *channel[T] {
	c := &channel[T]{capacity: capacity}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)
	return c
}

func (c *channel[T]) send(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.closed && c.capacity > 0 && c.items.Len() >= c.capacity {
		c.notFull.Wait()
	}
	if c.closed {
		return errChannelClosed
	}

	c.items.Push(item)
	c.notEmpty.Signal()
	return nil
}

// receive blocks until an item is available. ok is false only when the
// channel is closed and drained.
func (c *channel[T]) receive() (item T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.items.Len() == 0 && !c.closed {
		c.notEmpty.Wait()
	}
	if c.items.Len() == 0 {
		return item, false
	}

	item = c.items.Pop()
	c.notFull.Signal()
	return item, true
}

// close reports whether this call performed the transition.
func (c *channel[T]) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
	return true
}

// discard drops everything still buffered and returns how many items were lost.
func (c *channel[T]) discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.items.Clear()
	c.notFull.Broadcast()
	return n
}

func (c *channel[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

func (c *channel[T]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
