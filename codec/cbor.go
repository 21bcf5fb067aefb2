package codec

import (
	"io"
	"reflect"

	stderr "github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

// CBOR is an alternative binary body codec for APIs that speak
// RFC 7049 instead of JSON. Untyped decodes produce the same
// generic shapes as the JSON codec so hydration works unchanged
type CBOR struct{}

func cborHandle() *ugorji.CborHandle {
	handle := &ugorji.CborHandle{}
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return handle
}

// Encode is the implementation of Encoder for CBOR
func (CBOR) Encode(w io.Writer, v interface{}) error {
	return stderr.Wrap(ugorji.NewEncoder(w, cborHandle()).Encode(v),
		"failed to encode cbor")
}

// Decode is the implementation of Decoder for CBOR
func (CBOR) Decode(r io.Reader, v interface{}) error {
	return stderr.Wrap(ugorji.NewDecoder(r, cborHandle()).Decode(v),
		"failed to decode cbor")
}

// ContentType is the implementation of Encoder for CBOR
func (CBOR) ContentType() string {
	return "application/cbor"
}
