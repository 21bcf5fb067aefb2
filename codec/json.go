package codec

import (
	"encoding/json"
	"io"

	stderr "github.com/pkg/errors"
)

// JSON is the default body codec. Decoding into an untyped value
// produces the generic structures hydration works on: objects as
// map[string]interface{}, arrays as []interface{}
type JSON struct{}

// Encode is the implementation of Encoder for JSON
func (JSON) Encode(w io.Writer, v interface{}) error {
	return stderr.Wrap(json.NewEncoder(w).Encode(v), "failed to encode json")
}

// Decode is the implementation of Decoder for JSON
func (JSON) Decode(r io.Reader, v interface{}) error {
	return stderr.Wrap(json.NewDecoder(r).Decode(v), "failed to decode json")
}

// ContentType is the implementation of Encoder for JSON
func (JSON) ContentType() string {
	return "application/json"
}
