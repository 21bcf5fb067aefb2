package codec

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"sort"

	stderr "github.com/pkg/errors"
)

// Form encodes bodies as application/x-www-form-urlencoded. It is
// meant for APIs that do not accept JSON payloads; decoded values
// come back as map[string]interface{} so hydration can consume
// them the same way it consumes decoded JSON
type Form struct{}

// Encode is the implementation of Encoder for Form. Accepted
// values are url.Values, map[string]string and
// map[string]interface{}; keys are encoded in sorted order so that
// encoding is deterministic
func (Form) Encode(w io.Writer, v interface{}) error {
	values := url.Values{}

	switch m := v.(type) {
	case url.Values:
		values = m
	case map[string]string:
		for key, value := range m {
			values.Set(key, value)
		}
	case map[string]interface{}:
		for key, value := range m {
			values.Set(key, fmt.Sprintf("%v", value))
		}
	default:
		return stderr.Errorf("form encoding does not support %T", v)
	}

	_, err := io.WriteString(w, sortedEncode(values))
	return stderr.Wrap(err, "failed to encode form")
}

// Decode is the implementation of Decoder for Form
func (Form) Decode(r io.Reader, v interface{}) error {
	out, ok := v.(*interface{})
	if !ok {
		return stderr.Errorf("form decoding requires *interface{}, got %T", v)
	}

	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return stderr.Wrap(err, "failed to read form body")
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return stderr.Wrap(err, "failed to decode form")
	}

	decoded := make(map[string]interface{}, len(values))
	for key := range values {
		decoded[key] = values.Get(key)
	}

	*out = decoded
	return nil
}

// ContentType is the implementation of Encoder for Form
func (Form) ContentType() string {
	return "application/x-www-form-urlencoded"
}

func sortedEncode(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	encoded := ""
	for _, key := range keys {
		for _, value := range values[key] {
			if len(encoded) > 0 {
				encoded += "&"
			}
			encoded += url.QueryEscape(key) + "=" + url.QueryEscape(value)
		}
	}

	return encoded
}
