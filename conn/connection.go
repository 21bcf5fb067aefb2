package conn

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/activerest/activerest/codec"
	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/log"
	"github.com/activerest/activerest/metrics"
	"github.com/activerest/activerest/stats"
)

const headerRequestID = "X-Request-Id"

var knownMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

// bodilessMethods never carry a request body. DELETE is kept
// bodiless for consistency even though some APIs accept one
var bodilessMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodDelete: true,
}

// Props are the properties that define the behaviour of a
// Connection. The zero value is usable; DefaultProps returns the
// recommended posture instead (non-throwing 4xx, throwing 5xx,
// PUT updates)
type Props struct {
	// Name identifies the connection in log lines
	Name string

	// BaseURI is prepended to every request path. May be empty
	BaseURI string

	// DefaultHeaders are merged into every request; call-site
	// headers win on collision
	DefaultHeaders map[string]string

	// DefaultQuery parameters are merged into every request;
	// call-site parameters win on collision
	DefaultQuery map[string]string

	// ContentType is the default Content-Type applied to POST,
	// PUT and PATCH requests that carry a body and do not set
	// one. Empty falls back to the codec's content type
	ContentType string

	// UpdateMethod is the HTTP method used for updates. Empty
	// defaults to PUT
	UpdateMethod string

	// UpdateDiff, when set, makes updates send only the modified
	// fields instead of the full property set
	UpdateDiff bool

	// Middleware is the ordered interceptor list composed around
	// the transport; the first entry is the outermost layer
	Middleware []Middleware

	// Log, when set, appends every exchange to an in-memory,
	// append-only, unbounded list retrievable through Exchanges.
	// Unsafe for production use: memory grows without bound and
	// snapshots may capture sensitive request data
	Log bool

	// ThrowOn4xx makes Send return an error for statuses in
	// [400,500)
	ThrowOn4xx bool

	// ThrowOn5xx makes Send return an error for statuses >= 500
	ThrowOn5xx bool

	// BodyLimit bounds response body reads of the default
	// transport. Zero applies DefaultBodyLimit
	BodyLimit int64

	// Codec is the body format of the connection. Nil defaults
	// to JSON
	Codec codec.Codec

	// Success overrides what counts as a successful response.
	// Nil defaults to status code < 400. Pluggable because some
	// APIs always answer 200 and encode failure in the body
	Success func(*Response) bool

	// Error builds the error returned when a response matches the
	// throwable ranges. Nil defaults to ErrResponse
	Error func(*Request, *Response) error

	// Metrics, when set, instruments every dispatch
	Metrics *metrics.ClientMetrics
}

// DefaultProps returns the recommended connection posture:
// validation style 4xx answers are returned for inspection while
// 5xx and connectivity failures surface as errors
func DefaultProps() Props {
	return Props{
		UpdateMethod: http.MethodPut,
		ThrowOn5xx:   true,
	}
}

// Services are the services required by a Connection
type Services struct {
	Logger log.Logger
}

// Deps are the required instantiated dependencies that a
// Connection requires
type Deps struct {
	Logger    log.Logger
	Transport Transport
}

// Connection binds a logical API target to a transport: it builds
// requests from the configured defaults, dispatches them through
// the compiled middleware chain and applies the throw policy to
// the responses
type Connection struct {
	props     Props
	transport Transport
	logger    log.Logger
	tracker   *stats.RequestTracker

	chainOnce sync.Once
	chain     Handler

	mu        sync.Mutex
	exchanges []Exchange
}

// NewConnection creates a new connection that dispatches requests
// through a default net/http client
func NewConnection(services *Services, props *Props) *Connection {
	return NewConnectionWithDeps(&Deps{
		Logger: services.Logger,
		Transport: NewHTTPTransport(&http.Client{}, HTTPTransportProps{
			BodyLimit: props.BodyLimit,
		}),
	}, props)
}

// NewConnectionWithDeps creates a new connection using the
// external dependencies provided
func NewConnectionWithDeps(deps *Deps, props *Props) *Connection {
	p := *props
	if len(p.UpdateMethod) == 0 {
		p.UpdateMethod = http.MethodPut
	}
	if p.Codec == nil {
		p.Codec = codec.JSON{}
	}
	if len(p.Name) == 0 {
		p.Name = "default"
	}

	return &Connection{
		props:     p,
		transport: deps.Transport,
		logger:    deps.Logger.ForClass("conn", "Connection"),
		tracker:   stats.NewRequestTracker(),
	}
}

// Name returns the name the connection reports in log lines
func (c *Connection) Name() string {
	return c.props.Name
}

// UpdateMethod is the HTTP method save uses for entities that
// already have an identifier
func (c *Connection) UpdateMethod() string {
	return c.props.UpdateMethod
}

// UpdateDiff reports whether updates send only modified fields
func (c *Connection) UpdateDiff() bool {
	return c.props.UpdateDiff
}

// BuildRequest constructs the outgoing request for a dispatch. It
// performs no I/O and is referentially transparent: the same
// inputs always produce the same request. The body is encoded
// with the connection codec unless it is already a []byte or a
// string; GET, HEAD and DELETE never carry a body
func (c *Connection) BuildRequest(
	method string,
	path string,
	query map[string]string,
	headers map[string]string,
	body interface{},
) (*Request, error) {
	method = strings.ToUpper(method)
	if !knownMethods[method] {
		return nil, errors.New(errors.ErrBuildRequest,
			fmt.Errorf("unsupported http method %q", method))
	}

	mergedQuery := make(map[string]string, len(c.props.DefaultQuery)+len(query))
	for key, value := range c.props.DefaultQuery {
		mergedQuery[key] = value
	}
	for key, value := range query {
		mergedQuery[key] = value
	}

	mergedHeaders := http.Header{}
	for key, value := range c.props.DefaultHeaders {
		mergedHeaders.Set(key, value)
	}
	for key, value := range headers {
		mergedHeaders.Set(key, value)
	}

	var encoded []byte
	if body != nil && !bodilessMethods[method] {
		switch b := body.(type) {
		case []byte:
			encoded = b
		case string:
			encoded = []byte(b)
		default:
			var buffer bytes.Buffer
			if err := c.props.Codec.Encode(&buffer, body); err != nil {
				return nil, errors.New(errors.ErrEncodeBody, err)
			}
			encoded = buffer.Bytes()
		}

		if len(mergedHeaders.Get("Content-Type")) == 0 {
			if contentType := c.contentType(); len(contentType) > 0 {
				mergedHeaders.Set("Content-Type", contentType)
			}
		}
	}

	return &Request{
		Method:  method,
		URI:     joinURI(c.props.BaseURI, path),
		Query:   mergedQuery,
		Headers: mergedHeaders,
		Body:    encoded,
	}, nil
}

// Send dispatches the request through the compiled middleware
// chain and applies the connection's throw policy to the result.
// Transport failures always surface as an error. Responses whose
// status matches a throwable range are returned alongside the
// error so the caller can still inspect them; any other response
// is returned unconditionally, 4xx and 5xx included
func (c *Connection) Send(ctx context.Context, req *Request) (*Response, error) {
	requestID := uuid.New().String()
	ctx = log.PutRequestID(ctx, requestID)
	if len(req.Headers.Get(headerRequestID)) == 0 {
		req.Headers.Set(headerRequestID, requestID)
	}

	var timer *prometheus.Timer
	if c.props.Metrics != nil {
		timer = c.props.Metrics.RequestTimer(req.Method)
	}

	start := time.Now()
	res, err := c.handler()(ctx, req)
	elapsed := time.Since(start)

	c.tracker.Observe(req.Method, elapsed, err == nil && c.Success(res))
	if timer != nil {
		timer.ObserveDuration()
	}

	if c.props.Log {
		c.recordExchange(req, res, elapsed)
	}

	if err != nil {
		if c.props.Metrics != nil {
			c.props.Metrics.RequestCounter(req.Method, "transport_error").Inc()
		}
		c.logger.Warn(ctx, "failed to dispatch request", req, log.MapFields{
			"connection": c.props.Name,
			"err":        err.Error(),
		})
		return nil, err
	}

	if c.props.Metrics != nil {
		c.props.Metrics.RequestCounter(req.Method, strconv.Itoa(res.StatusCode)).Inc()
	}

	c.logger.Debug(ctx, "request dispatched", req, res, log.MapFields{
		"connection": c.props.Name,
		"elapsedMs":  elapsed.Milliseconds(),
	})

	if c.throwable(res) {
		return res, c.errorFor(req, res)
	}

	return res, nil
}

// Success reports whether the response counts as successful under
// the connection's active definition
func (c *Connection) Success(res *Response) bool {
	if res == nil {
		return false
	}
	if c.props.Success != nil {
		return c.props.Success(res)
	}

	return res.StatusCode < 400
}

// Decode decodes the response body with the connection codec. The
// result is cached on the response, so the body is decoded at
// most once
func (c *Connection) Decode(res *Response) (interface{}, error) {
	return res.Decoded(c.props.Codec)
}

// Exchanges returns a copy of the exchange log recorded so far.
// Empty unless Props.Log is set
func (c *Connection) Exchanges() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()

	exchanges := make([]Exchange, len(c.exchanges))
	copy(exchanges, c.exchanges)
	return exchanges
}

// Stats reports per-method dispatch counters and latencies
func (c *Connection) Stats() map[string]interface{} {
	return c.tracker.Stats()
}

// handler compiles the middleware chain around the transport
// kernel once and caches it; every send reuses the compiled
// pipeline
func (c *Connection) handler() Handler {
	c.chainOnce.Do(func() {
		kernel := func(ctx context.Context, req *Request) (*Response, error) {
			return c.transport.RoundTrip(ctx, req)
		}
		c.chain = Chain(kernel, c.props.Middleware...)
	})

	return c.chain
}

func (c *Connection) throwable(res *Response) bool {
	switch {
	case res.StatusCode >= 500:
		return c.props.ThrowOn5xx
	case res.StatusCode >= 400:
		return c.props.ThrowOn4xx
	default:
		return false
	}
}

func (c *Connection) errorFor(req *Request, res *Response) error {
	if c.props.Error != nil {
		return c.props.Error(req, res)
	}

	return ErrResponse{Request: req, Response: res}
}

func (c *Connection) recordExchange(req *Request, res *Response, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exchanges = append(c.exchanges, Exchange{
		Request:  req.Clone(),
		Response: res,
		Elapsed:  elapsed,
	})
}

func (c *Connection) contentType() string {
	if len(c.props.ContentType) > 0 {
		return c.props.ContentType
	}

	return c.props.Codec.ContentType()
}

func joinURI(base string, path string) string {
	base = strings.Trim(base, "/")
	path = strings.Trim(path, "/")

	switch {
	case len(base) == 0:
		return path
	case len(path) == 0:
		return base
	default:
		return base + "/" + path
	}
}
