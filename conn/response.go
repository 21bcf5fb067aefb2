package conn

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/activerest/activerest/codec"
	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/log"
)

// Response is the wire level description of a completed exchange
type Response struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Status is the reason phrase reported by the server, if any
	Status string

	// Headers are the response headers. Keys are case-insensitive
	// as defined by http.Header
	Headers http.Header

	// Body is the raw response body
	Body []byte

	decodeOnce sync.Once
	decoded    interface{}
	decodeErr  error
}

// Decoded decodes the raw body with the provided decoder exactly
// once and caches the result; subsequent calls return the cached
// value regardless of the decoder passed. An empty body decodes
// to nil
func (r *Response) Decoded(decoder codec.Decoder) (interface{}, error) {
	r.decodeOnce.Do(func() {
		if len(r.Body) == 0 {
			return
		}

		var v interface{}
		if err := decoder.Decode(bytes.NewReader(r.Body), &v); err != nil {
			r.decodeErr = errors.New(errors.ErrDecodePayload, err)
			return
		}

		r.decoded = v
	})

	return r.decoded, r.decodeErr
}

// Log implementation of log.Loggable
func (r *Response) Log(fields log.Fields) {
	fields.Add("statusCode", r.StatusCode)
	fields.Add("bodyLength", len(r.Body))
}
