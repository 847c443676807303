// Package flight provides a keyed result cache that coalesces concurrent
// requests for the same key into a single execution of the work function.
package flight

import (
	"sync"
	"time"
)

type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	finished map[K]entry[V]
	pending  map[K]*job[V]

	work func(K) (V, error)
	ttl  time.Duration
}

type entry[V any] struct {
	val      V
	deadline time.Time // zero => never expires
}

type job[V any] struct {
	val  V
	err  error
	done chan struct{}
}

// NewCache builds a cache around work. Results are held for one hour by
// default; see Expiry.
func NewCache[K comparable, V any](work func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{
		finished: make(map[K]entry[V]),
		pending:  make(map[K]*job[V]),
		work:     work,
		ttl:      time.Hour,
	}
}

// Expiry sets the hold duration for future writes. d <= 0 keeps results
// forever.
func (c *Cache[K, V]) Expiry(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = d
}

// Get returns the cached result for k, joining an in-flight computation if
// one exists, and otherwise running the work function.
func (c *Cache[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	if e, ok := c.finished[k]; ok {
		if e.deadline.IsZero() || time.Now().Before(e.deadline) {
			c.mu.Unlock()
			return e.val, nil
		}
		delete(c.finished, k)
	}
	if p, ok := c.pending[k]; ok {
		c.mu.Unlock()
		<-p.done
		return p.val, p.err
	}
	j := &job[V]{done: make(chan struct{})}
	c.pending[k] = j
	c.mu.Unlock()

	c.run(k, j)
	return j.val, j.err
}

// Force recomputes k, waiting out any in-flight computation first so two
// workers never run for the same key at once.
func (c *Cache[K, V]) Force(k K) (V, error) {
	var j *job[V]
	for {
		c.mu.Lock()
		if p, ok := c.pending[k]; ok {
			c.mu.Unlock()
			<-p.done
			continue
		}
		j = &job[V]{done: make(chan struct{})}
		c.pending[k] = j
		c.mu.Unlock()
		break
	}

	c.run(k, j)
	return j.val, j.err
}

func (c *Cache[K, V]) run(k K, j *job[V]) {
	j.val, j.err = c.work(k)

	c.mu.Lock()
	if j.err == nil {
		e := entry[V]{val: j.val}
		if c.ttl > 0 {
			e.deadline = time.Now().Add(c.ttl)
		}
		c.finished[k] = e
	}
	delete(c.pending, k)
	c.mu.Unlock()
	close(j.done)
}
