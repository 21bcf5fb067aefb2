package stats

import (
	"net/http"
	"time"
)

// RequestTracker tracks dispatched requests and their latencies,
// partitioned by HTTP method. The set of tracked methods is fixed
// at initialization time to avoid concurrency issues, so it
// favours immutability. Dispatches with an unexpected method land
// in the special "undefined" bucket
type RequestTracker struct {
	count     map[string]*CounterGroup
	latencies map[string]*IntWindow
}

// RequestTrackerProps are the properties used to define
// the behaviour of a RequestTracker
type RequestTrackerProps struct {
	Methods    []string
	WindowSize uint32
}

// NewRequestTrackerWithProps creates a new RequestTracker with the
// specified properties
func NewRequestTrackerWithProps(props *RequestTrackerProps) *RequestTracker {
	count := make(map[string]*CounterGroup)
	latencies := make(map[string]*IntWindow)

	for _, method := range props.Methods {
		count[method] = NewCounterGroup("ok", "error")
		latencies[method] = NewIntWindow(props.WindowSize)
	}

	count["undefined"] = NewCounterGroup("ok", "error")
	latencies["undefined"] = NewIntWindow(props.WindowSize)

	return &RequestTracker{
		count:     count,
		latencies: latencies,
	}
}

// NewRequestTracker creates a new tracker for the standard HTTP
// methods a connection dispatches
func NewRequestTracker() *RequestTracker {
	return NewRequestTrackerWithProps(&RequestTrackerProps{
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
		},
		WindowSize: 64,
	})
}

// Observe records the outcome and latency of a single dispatch
func (t *RequestTracker) Observe(method string, elapsed time.Duration, ok bool) {
	count, found := t.count[method]
	if !found {
		method = "undefined"
		count = t.count[method]
	}

	if ok {
		count.Incr("ok")
	} else {
		count.Incr("error")
	}

	t.latencies[method].Add(int64(elapsed / time.Millisecond))
}

// Count returns the counter group used to track the method. If the
// method is not tracked it returns nil, false
func (t *RequestTracker) Count(method string) (*CounterGroup, bool) {
	group, ok := t.count[method]
	return group, ok
}

// Latencies returns the window used to track the method latencies.
// If the method is not tracked it returns nil, false
func (t *RequestTracker) Latencies(method string) (*IntWindow, bool) {
	window, ok := t.latencies[method]
	return window, ok
}

// Stats reports counters and average latencies per method
func (t *RequestTracker) Stats() map[string]interface{} {
	stats := make(map[string]interface{})

	for method, count := range t.count {
		stats[method] = map[string]interface{}{
			"count":   count.Stats(),
			"latency": t.latencies[method].Stats(),
		}
	}

	return stats
}
