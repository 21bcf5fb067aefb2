package conn

import (
	"fmt"

	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/log"
)

// ErrTransport reports a connectivity level failure of the
// underlying transport (DNS, TLS, timeout, connection refused).
// It always propagates to the caller and is never downgraded to
// a response
type ErrTransport struct {
	Cause error
}

// Error is the implementation of go's error interface for ErrTransport
func (e ErrTransport) Error() string {
	return fmt.Sprintf("[conn] transport failure: %s", e.Cause.Error())
}

// ErrorCode is the implementation of errors.Err for ErrTransport
func (e ErrTransport) ErrorCode() errors.ErrorCode {
	return errors.ErrTransportFailure
}

// Log implementation of log.Loggable
func (e ErrTransport) Log(fields log.Fields) {
	fields.Add("err", e.Cause.Error())
	fields.Add("errorCode", errors.ErrTransportFailure.Code())
}

// ErrResponse reports an exchange whose response status matched
// the connection's throwable ranges. It carries the full response
// and the originating request so that callers can extract an API
// specific error payload
type ErrResponse struct {
	Request  *Request
	Response *Response
}

// Error is the implementation of go's error interface for ErrResponse
func (e ErrResponse) Error() string {
	return fmt.Sprintf("[conn] %s %s failed with status %d",
		e.Request.Method, e.Request.URL(), e.Response.StatusCode)
}

// ErrorCode is the implementation of errors.Err for ErrResponse
func (e ErrResponse) ErrorCode() errors.ErrorCode {
	return errors.ErrResponseRejected
}

// Log implementation of log.Loggable
func (e ErrResponse) Log(fields log.Fields) {
	fields.Add("method", e.Request.Method)
	fields.Add("url", e.Request.URL())
	fields.Add("statusCode", e.Response.StatusCode)
	fields.Add("errorCode", errors.ErrResponseRejected.Code())
}
