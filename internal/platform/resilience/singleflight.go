package resilience

import (
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// SingleFlight collapses concurrent loads of the same key into one call.
// A panic in fn is re-raised in every waiting caller.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg        sync.WaitGroup
	val       any
	err       error
	recovered *panics.Recovered
}

// Do reports shared=true when the caller waited on another caller's fn.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		if c.recovered != nil {
			panic(c.recovered)
		}
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	var catcher panics.Catcher
	catcher.Try(func() {
		c.val, c.err = fn()
	})
	c.recovered = catcher.Recovered()
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	if c.recovered != nil {
		panic(c.recovered)
	}
	return c.val, c.err, false
}
