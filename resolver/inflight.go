package resolver

import "sync"

// flightGroup deduplicates concurrent work by key: the first caller for a key
// runs the function, later callers for the same key block until it settles and
// receive the same result. Thundering-herd protection for metadata and
// resolution lookups that are not yet cached.
type flightGroup[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done  chan struct{}
	value T
}

func newFlightGroup[T any]() *flightGroup[T] {
	return &flightGroup[T]{calls: make(map[string]*flightCall[T])}
}

// Do runs fn under key, or attaches to an identical in-flight run. Every
// caller receives the settled value. shared reports whether the value came
// from another caller's run.
func (g *flightGroup[T]) Do(key string, fn func() T) (value T, shared bool) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.value, true
	}

	c := &flightCall[T]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.value = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.value, false
}
