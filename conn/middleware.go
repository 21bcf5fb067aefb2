package conn

import (
	"context"

	"github.com/activerest/activerest/log"
)

// Handler dispatches a request and returns the response of the
// exchange
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Handler with behaviour that runs before
// and/or after the wrapped handler. A middleware receives the
// request reflecting the effects of every layer above it and may
// mutate it before calling next, inspect or replace the response
// next returns, or short-circuit by never calling next at all
type Middleware func(next Handler) Handler

// Chain folds the middleware right to left around the kernel so
// that the first middleware in the list is the outermost layer.
// The composed handler holds no state of its own and is safe to
// invoke concurrently as long as the individual layers are
func Chain(kernel Handler, middleware ...Middleware) Handler {
	h := kernel
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}

	return h
}

// WithHeader returns a middleware that sets a static header on
// every outgoing request unless the request already carries one
// with the same name. This is the supported mechanism for static
// credential injection
func WithHeader(name string, value string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if len(req.Headers.Get(name)) == 0 {
				req.Headers.Set(name, value)
			}

			return next(ctx, req)
		}
	}
}

// WithLogging returns a middleware that logs every exchange that
// crosses it
func WithLogging(logger log.Logger) Middleware {
	logger = logger.ForClass("conn", "Middleware")

	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			logger.Debug(ctx, "attempt to dispatch request", req)

			res, err := next(ctx, req)
			if err != nil {
				logger.Warn(ctx, "failed to dispatch request", req, log.MapFields{
					"err": err.Error(),
				})
				return res, err
			}

			logger.Debug(ctx, "request dispatched", req, res)
			return res, nil
		}
	}
}
