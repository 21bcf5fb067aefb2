package resource

import (
	"fmt"

	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/log"
)

// ErrInvalidPayload reports hydration input that is structurally
// unusable: not an object for a model, not a list for an embedded
// collection. It indicates a caller or API contract mismatch, not
// a network problem
type ErrInvalidPayload struct {
	Value interface{}
}

// Error is the implementation of go's error interface for ErrInvalidPayload
func (e ErrInvalidPayload) Error() string {
	return fmt.Sprintf("[resource] cannot hydrate from %T", e.Value)
}

// ErrorCode is the implementation of errors.Err for ErrInvalidPayload
func (e ErrInvalidPayload) ErrorCode() errors.ErrorCode {
	return errors.ErrInvalidPayload
}

// Log implementation of log.Loggable
func (e ErrInvalidPayload) Log(fields log.Fields) {
	fields.Add("value", fmt.Sprintf("%T", e.Value))
	fields.Add("errorCode", errors.ErrInvalidPayload.Code())
}

// ErrInvalidParent reports a dependent parent that is neither a
// literal path fragment nor a model
type ErrInvalidParent struct {
	Value interface{}
}

// Error is the implementation of go's error interface for ErrInvalidParent
func (e ErrInvalidParent) Error() string {
	return fmt.Sprintf("[resource] cannot use %T as a dependent parent", e.Value)
}

// ErrorCode is the implementation of errors.Err for ErrInvalidParent
func (e ErrInvalidParent) ErrorCode() errors.ErrorCode {
	return errors.ErrInvalidParent
}

// Log implementation of log.Loggable
func (e ErrInvalidParent) Log(fields log.Fields) {
	fields.Add("value", fmt.Sprintf("%T", e.Value))
	fields.Add("errorCode", errors.ErrInvalidParent.Code())
}

// ErrMissingIdentifier reports an operation that needs an
// identifier value on an entity that has none, such as destroying
// a never-persisted model
type ErrMissingIdentifier struct {
	Resource string
}

// Error is the implementation of go's error interface for ErrMissingIdentifier
func (e ErrMissingIdentifier) Error() string {
	return fmt.Sprintf("[resource] %s has no identifier value", e.Resource)
}

// ErrorCode is the implementation of errors.Err for ErrMissingIdentifier
func (e ErrMissingIdentifier) ErrorCode() errors.ErrorCode {
	return errors.ErrMissingIdentifier
}

// Log implementation of log.Loggable
func (e ErrMissingIdentifier) Log(fields log.Fields) {
	fields.Add("resource", e.Resource)
	fields.Add("errorCode", errors.ErrMissingIdentifier.Code())
}
