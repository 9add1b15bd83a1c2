package syncutil

import (
	"container/list"
	"iter"
	"sync"
)

// Callbacks is a thread-safe ordered list of callbacks.
// The zero value is ready to use.
type Callbacks[T any] struct {
	mu    sync.RWMutex
	order list.List
}

func (c *Callbacks[T]) Len() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Add appends the callback and returns a function that removes it.
// The remove function is idempotent.
func (c *Callbacks[T]) Add(cb T) (remove func()) {
	c.mu.Lock()
	el := c.order.PushBack(cb)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.order.Remove(el)
			c.mu.Unlock()
		})
	}
}

// All iterates over a snapshot of the callbacks in insertion order.
// Callbacks may be added or removed during iteration.
func (c *Callbacks[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if c == nil {
			return
		}

		c.mu.RLock()
		cbs := make([]T, 0, c.order.Len())
		for el := c.order.Front(); el != nil; el = el.Next() {
			cbs = append(cbs, el.Value.(T)) //nolint:forcetypeassert
		}
		c.mu.RUnlock()

		for _, cb := range cbs {
			if !yield(cb) {
				return
			}
		}
	}
}
