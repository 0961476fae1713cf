package resilience

import (
	"fmt"
	"sync"
)

// Flight collapses concurrent loads of the same key into one call. The guard
// keys it by upstream URL and the cache keys it by cache key, so a slate
// build that asks for one game summary from several legs hits ESPN once.
type Flight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Do runs fn for key unless a call for key is already in flight, in which
// case it waits for that result. shared reports whether the result came from
// another caller. A panic in fn is returned to every waiter as an error.
func (f *Flight[T]) Do(key string, fn func() (T, error)) (val T, shared bool, err error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]*flightCall[T])
	}
	if c, ok := f.calls[key]; ok {
		f.mu.Unlock()
		<-c.done
		return c.val, true, c.err
	}

	c := &flightCall[T]{done: make(chan struct{})}
	f.calls[key] = c
	f.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.err = fmt.Errorf("load %q panicked: %v", key, r)
			val, err = c.val, c.err
		}
		f.mu.Lock()
		delete(f.calls, key)
		f.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
	return c.val, false, c.err
}
