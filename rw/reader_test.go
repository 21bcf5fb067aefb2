package rw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitReaderRead(t *testing.T) {
	buf := bytes.NewBuffer([]byte("some data"))
	p := make([]byte, 64)

	n, err := NewLimitReader(buf, ReadLimitProps{FailOnExceed: true, Limit: 16}).Read(p)

	assert.Nil(t, err)
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 9, n)
	assert.Equal(t, "some data", string(p[:n]))
}

func TestLimitReaderReadWithLimitErrExceed(t *testing.T) {
	buf := bytes.NewBuffer([]byte("some data"))
	p := make([]byte, 64)

	n, err := NewLimitReader(buf, ReadLimitProps{FailOnExceed: true, Limit: 8}).Read(p)

	assert.Equal(t, ErrLimitExceeded, err)
	assert.Equal(t, 0, n)
}

func TestLimitReaderReadWithLimitTruncates(t *testing.T) {
	buf := bytes.NewBuffer([]byte("some data"))
	p := make([]byte, 64)

	n, err := NewLimitReader(buf, ReadLimitProps{FailOnExceed: false, Limit: 8}).Read(p)

	assert.Nil(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "some dat", string(p[:n]))
}

func TestReadAllWithLimit(t *testing.T) {
	body, err := ReadAllWithLimit(strings.NewReader("{\"id\": 1}"),
		ReadLimitProps{FailOnExceed: true, Limit: 64})

	assert.Nil(t, err)
	assert.Equal(t, "{\"id\": 1}", string(body))
}

func TestReadAllWithLimitNilReader(t *testing.T) {
	body, err := ReadAllWithLimit(nil, ReadLimitProps{FailOnExceed: true, Limit: 64})

	assert.Nil(t, err)
	assert.Equal(t, 0, len(body))
}

func TestReadAllWithLimitExceeded(t *testing.T) {
	_, err := ReadAllWithLimit(strings.NewReader(strings.Repeat("x", 128)),
		ReadLimitProps{FailOnExceed: true, Limit: 64})

	assert.Equal(t, ErrLimitExceeded, err)
}
