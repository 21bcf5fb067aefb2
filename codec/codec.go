package codec

import (
	"io"

	"github.com/activerest/activerest/rw"
)

// Encoder for request bodies
type Encoder interface {
	// Encode encodes the provided payload with its format to the
	// provided writer. In case of failure it is possible a partial
	// write of the serialization to the writer
	Encode(w io.Writer, v interface{}) error

	// ContentType is the media type the encoder produces. It is
	// used as the default Content-Type header for requests that
	// carry a body
	ContentType() string
}

// Decoder for response bodies
type Decoder interface {
	// Decode decodes the provided payload with its format from the
	// provided reader. In case of failure it is possible a partial
	// read has occurred
	Decode(r io.Reader, v interface{}) error
}

// Codec groups the two directions of a body format
type Codec interface {
	Encoder
	Decoder
}

// DecodeWithLimit decodes the payload in the reader making sure not
// to exceed the limit provided
func DecodeWithLimit(d Decoder, r io.Reader, v interface{}, props rw.ReadLimitProps) error {
	// the decoder needs to receive an io.EOF from the reader to make
	// sure it finished reading from source
	return d.Decode(rw.NewLimitReader(r, props), v)
}
