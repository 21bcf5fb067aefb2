package conn

import (
	"net/http"
	"net/url"
	"sort"

	"github.com/activerest/activerest/log"
)

// Request is the wire level description of an outgoing exchange.
// Instances are produced by Connection.BuildRequest and are
// logically frozen once handed to the transport; middleware that
// runs before the transport may still mutate the instance it
// passes down the chain
type Request struct {
	// Method is the HTTP method of the request
	Method string

	// URI is the absolute URI of the request without the query
	// string
	URI string

	// Query are the query parameters attached to the URI when the
	// request is dispatched. Keys are encoded in sorted order so
	// that the same request always produces the same URL
	Query map[string]string

	// Headers are the headers sent with the request. Keys are
	// case-insensitive as defined by http.Header
	Headers http.Header

	// Body is the already encoded request body, if any
	Body []byte
}

// URL returns the complete URL of the request including the
// encoded query string
func (r *Request) URL() string {
	if len(r.Query) == 0 {
		return r.URI
	}

	keys := make([]string, 0, len(r.Query))
	for key := range r.Query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	encoded := ""
	for _, key := range keys {
		if len(encoded) > 0 {
			encoded += "&"
		}
		encoded += url.QueryEscape(key) + "=" + url.QueryEscape(r.Query[key])
	}

	return r.URI + "?" + encoded
}

// Clone returns a deep enough copy of the request for snapshots:
// query and headers are copied, the body slice is shared since it
// is never mutated after construction
func (r *Request) Clone() *Request {
	query := make(map[string]string, len(r.Query))
	for key, value := range r.Query {
		query[key] = value
	}

	headers := make(http.Header, len(r.Headers))
	for key, values := range r.Headers {
		copied := make([]string, len(values))
		copy(copied, values)
		headers[key] = copied
	}

	return &Request{
		Method:  r.Method,
		URI:     r.URI,
		Query:   query,
		Headers: headers,
		Body:    r.Body,
	}
}

// Log implementation of log.Loggable
func (r *Request) Log(fields log.Fields) {
	fields.Add("method", r.Method)
	fields.Add("url", r.URL())
	fields.Add("bodyLength", len(r.Body))
}
