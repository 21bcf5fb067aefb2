package rw

import (
	"errors"
	"io"
)

// ErrLimitExceeded signals that the underlying reader has more
// available bytes than the expected limit
var ErrLimitExceeded = errors.New("read limit exceeded")

// ReadLimitProps sets up the behaviour of the limit reader
type ReadLimitProps struct {
	// FailOnExceed defines whether the LimitReader should return an
	// error if the underlying reader has more bytes than the limit
	FailOnExceed bool

	// Limit is the maximum number of bytes that can be read from the
	// reader and copied to the provided buffer
	Limit int64
}

// NewLimitReader returns a new LimitReader
func NewLimitReader(reader io.Reader, props ReadLimitProps) *LimitReader {
	readerLimit := props.Limit
	if props.FailOnExceed {
		// let io.LimitedReader read one byte more than the limit.
		// This is the only way to tell apart a reader that ends
		// exactly at the limit from one that exceeds it
		readerLimit++
	}

	return &LimitReader{
		failOnExceed: props.FailOnExceed,
		count:        0,
		limit:        props.Limit,
		reader:       io.LimitReader(reader, readerLimit),
	}
}

// LimitReader is an io.Reader wrapper that ensures that
// no more than limit bytes are read from the reader
type LimitReader struct {
	failOnExceed bool
	count        int64
	limit        int64
	reader       io.Reader
}

// Read is the implementation of io.Reader for LimitReader
func (r *LimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil {
		return n, err
	}

	r.count += int64(n)
	if r.failOnExceed && r.count > r.limit {
		return 0, ErrLimitExceeded
	}

	return n, nil
}

// ReadAllWithLimit drains the reader into a byte slice, failing
// with ErrLimitExceeded if the reader holds more than props.Limit
// bytes and props.FailOnExceed is set. A nil reader yields an
// empty slice
func ReadAllWithLimit(r io.Reader, props ReadLimitProps) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	limited := NewLimitReader(r, props)
	buf := make([]byte, 0, 512)
	chunk := make([]byte, 512)

	for {
		n, err := limited.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return buf, nil
		}
	}
}
