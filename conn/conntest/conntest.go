// Package conntest provides test doubles for the transport seam
// of the conn package.
package conntest

import (
	"context"
	"io/ioutil"
	"net/http"
	"sync"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/log"
)

// Logger discards everything. Tests pass it wherever a logger is
// required
var Logger = log.NewLogrus(log.LogrusProperties{
	Output: ioutil.Discard,
})

// RoundTrip is one scripted exchange of a Transport double
type RoundTrip struct {
	Response *conn.Response
	Err      error
}

// Transport is a scripted conn.Transport: it answers queued
// round trips in order, falling back to a 200 response with an
// empty body when the queue is drained, and records every request
// it receives
type Transport struct {
	mu       sync.Mutex
	queue    []RoundTrip
	requests []*conn.Request
}

// NewTransport creates a transport that will answer the provided
// round trips in order
func NewTransport(trips ...RoundTrip) *Transport {
	return &Transport{queue: trips}
}

// Queue appends a scripted round trip
func (t *Transport) Queue(trip RoundTrip) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, trip)
}

// Requests returns the requests received so far, in order
func (t *Transport) Requests() []*conn.Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	requests := make([]*conn.Request, len(t.requests))
	copy(requests, t.requests)
	return requests
}

// LastRequest returns the most recent request, or nil
func (t *Transport) LastRequest() *conn.Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.requests) == 0 {
		return nil
	}

	return t.requests[len(t.requests)-1]
}

// RoundTrip is the implementation of conn.Transport for Transport
func (t *Transport) RoundTrip(ctx context.Context, req *conn.Request) (*conn.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append(t.requests, req.Clone())

	if len(t.queue) == 0 {
		return &conn.Response{StatusCode: http.StatusOK, Headers: http.Header{}}, nil
	}

	trip := t.queue[0]
	t.queue = t.queue[1:]
	return trip.Response, trip.Err
}

// JSONResponse builds a response with the provided status and a
// raw JSON body
func JSONResponse(statusCode int, body string) *conn.Response {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	return &conn.Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       []byte(body),
	}
}

// NewConnection builds a connection on top of the provided
// transport double
func NewConnection(props *conn.Props, transport *Transport) *conn.Connection {
	return conn.NewConnectionWithDeps(&conn.Deps{
		Logger:    Logger,
		Transport: transport,
	}, props)
}
