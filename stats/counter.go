package stats

import (
	"sync/atomic"
)

// Counter is used to count how many times an event
// occurs
type Counter struct {
	value uint64
}

// Incr increments the counter by one
func (c *Counter) Incr() uint64 {
	return atomic.AddUint64(&c.value, 1)
}

// Value returns the current value of the counter
func (c *Counter) Value() uint64 {
	return atomic.LoadUint64(&c.value)
}

// CounterGroup is a fixed set of named counters. All counters are
// allocated at creation time so that incrementing is safe for
// concurrent use without locking
type CounterGroup struct {
	group map[string]*Counter
}

// NewCounterGroup creates a new counter group with one counter per
// provided name plus a catch all counter for unknown names
func NewCounterGroup(names ...string) *CounterGroup {
	m := make(map[string]*Counter)

	for _, name := range names {
		m[name] = &Counter{value: 0}
	}

	m["undefined"] = &Counter{value: 0}

	return &CounterGroup{group: m}
}

// Get retrieves the counter from the group. If no counter is found
// associated to that specific name the catch all counter is
// returned
func (g *CounterGroup) Get(name string) *Counter {
	counter, ok := g.group[name]
	if !ok {
		counter = g.group["undefined"]
	}

	return counter
}

// Incr increments the counter associated with name
func (g *CounterGroup) Incr(name string) uint64 {
	return g.Get(name).Incr()
}

// Stats returns the current value of every counter in the group
func (g *CounterGroup) Stats() map[string]interface{} {
	stats := make(map[string]interface{})

	for key, counter := range g.group {
		stats[key] = counter.Value()
	}

	return stats
}
