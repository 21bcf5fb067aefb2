package conn

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/rw"
)

// DefaultBodyLimit is the maximum number of response body bytes
// the default transport reads when no limit is configured
const DefaultBodyLimit int64 = 4 << 20

// Transport sends a Request and returns the Response of the
// exchange. It is the only network facing seam of the library;
// any HTTP client capability satisfying this contract is
// pluggable. Implementations must report connectivity failures
// as an error, never as a fabricated response
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// HttpClient is the basic interface for the underlying http
// client used by the default transport
type HttpClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPTransportProps define the behaviour of an HTTPTransport
type HTTPTransportProps struct {
	// BodyLimit is the maximum number of response body bytes the
	// transport reads before failing the exchange. Zero applies
	// DefaultBodyLimit
	BodyLimit int64
}

// HTTPTransport is the default Transport built on top of an
// HttpClient. Timeouts and cancellation are delegated to the
// provided client and the request context
type HTTPTransport struct {
	client    HttpClient
	bodyLimit int64
}

// NewHTTPTransport creates a transport that dispatches requests
// through the provided client
func NewHTTPTransport(client HttpClient, props HTTPTransportProps) *HTTPTransport {
	bodyLimit := props.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	return &HTTPTransport{client: client, bodyLimit: bodyLimit}
}

// RoundTrip is the implementation of Transport for HTTPTransport
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequest(req.Method, req.URL(), body)
	if err != nil {
		return nil, errors.New(errors.ErrBuildRequest, err)
	}
	httpReq = httpReq.WithContext(ctx)

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpRes, err := t.client.Do(httpReq)
	if err != nil {
		return nil, ErrTransport{Cause: err}
	}
	defer func() {
		_ = httpRes.Body.Close()
	}()

	resBody, err := rw.ReadAllWithLimit(httpRes.Body, rw.ReadLimitProps{
		FailOnExceed: true,
		Limit:        t.bodyLimit,
	})
	if err != nil {
		return nil, ErrTransport{Cause: err}
	}

	return &Response{
		StatusCode: httpRes.StatusCode,
		Status:     httpRes.Status,
		Headers:    httpRes.Header,
		Body:       resBody,
	}, nil
}
