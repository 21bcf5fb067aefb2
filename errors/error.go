package errors

import (
	"fmt"

	"github.com/activerest/activerest/log"
)

// Err is the interface implemented by all the errors the library
// produces. It extends go's error with the ability to report
// itself into structured log fields
type Err interface {
	Error() string
	ErrorCode() ErrorCode
	log.Loggable
}

var (
	ErrTransportFailure = ErrorCode{
		category: TransportError,
		code:     1000,
		desc: "The underlying transport failed to complete the exchange. " +
			"Check connectivity to the remote API.",
	}

	ErrResponseRejected = ErrorCode{
		category: ResponseError,
		code:     1001,
		desc:     "The remote API answered with a status code configured as throwable.",
	}

	ErrDecodePayload = ErrorCode{
		category: SerializationError,
		code:     2001,
		desc:     "Failed to decode the response body.",
	}

	ErrEncodeBody = ErrorCode{
		category: SerializationError,
		code:     2002,
		desc:     "Failed to encode the request body.",
	}

	ErrInvalidPayload = ErrorCode{
		category: InputError,
		code:     2003,
		desc:     "Hydration payload is not an object.",
	}

	ErrBuildRequest = ErrorCode{
		category: InputError,
		code:     2004,
		desc:     "Failed to build the outgoing request.",
	}

	ErrConnectionNotFound = ErrorCode{
		category: ConfigError,
		code:     3001,
		desc:     "No connection is registered under the requested name.",
	}

	ErrMissingIdentifier = ErrorCode{
		category: InputError,
		code:     2005,
		desc:     "The operation requires an identifier value but the entity has none.",
	}

	ErrInvalidParent = ErrorCode{
		category: InputError,
		code:     2006,
		desc:     "A dependent parent must be a path fragment or a model.",
	}
)

// Category defines error categories that logically group them. The
// classification mirrors the kinds of failures a caller of the
// library needs to tell apart
type Category string

const (
	// TransportError refers to connectivity level failures such as
	// DNS resolution, TLS handshakes, timeouts or refused
	// connections. These always propagate to the caller and are
	// never downgraded to a response
	TransportError Category = "TransportError"

	// ResponseError refers to an exchange that completed at the
	// HTTP level but whose status code matched the connection's
	// throwable ranges
	ResponseError Category = "ResponseError"

	// SerializationError refers to failures encoding a request
	// body or decoding a response body
	SerializationError Category = "SerializationError"

	// InputError refers to errors caused by input that is
	// malformed or cannot be used for the requested operation
	InputError Category = "InputError"

	// ConfigError refers to programmer or configuration errors,
	// such as looking up a connection name that was never
	// registered. These fail fast
	ConfigError Category = "ConfigError"
)

// Error is the base implementation of Err. It pairs an ErrorCode
// with an optional underlying cause
type Error struct {
	Cause error
	Code  ErrorCode
}

// Error is the implementation of error for Error
func (e Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s: %s",
			e.Code.Code(), e.Code.Category(), e.Code.Desc())
	}

	return fmt.Sprintf("[%d] %s: %s: %s",
		e.Code.Code(), e.Code.Category(), e.Code.Desc(), e.Cause)
}

// ErrorCode is the implementation of Err for Error
func (e Error) ErrorCode() ErrorCode {
	return e.Code
}

// Log implementation of log.Loggable
func (e Error) Log(fields log.Fields) {
	fields.Add("err", e.Code.Desc())
	fields.Add("errorCode", e.Code.Code())

	if e.Cause != nil {
		fields.Add("cause", e.Cause.Error())
	}
}

// New creates a new instance of an error
func New(errorCode ErrorCode, cause error) Error {
	return Error{Cause: cause, Code: errorCode}
}

// ErrorCode holds the necessary information to uniquely identify an
// error and make sure that a valuable message is surfaced to the
// user in case of encountering an error
type ErrorCode struct {
	// category is the type of the error
	category Category

	// code is a unique identifier for the error that can be used
	// to identify the particular type of error encountered
	code int

	// desc is a human readable description of the error that
	// occurred to aid the client in debugging
	desc string
}

// Category getter for category
func (e ErrorCode) Category() Category {
	return e.category
}

// Code getter for code
func (e ErrorCode) Code() int {
	return e.code
}

// Desc getter for desc
func (e ErrorCode) Desc() string {
	return e.desc
}
