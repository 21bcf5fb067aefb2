package conn

import (
	"time"
)

// Exchange is one entry of a connection's exchange log: the
// snapshot of a dispatched request, the response it produced and
// how long the full middleware chain took. The response is nil
// when the transport failed
type Exchange struct {
	Request  *Request
	Response *Response
	Elapsed  time.Duration
}
