package log

import (
	"context"
)

type contextKey string

const contextKeyRequestID contextKey = "logContextKeyRequestID"

// PutRequestID annotates the context with the identifier of the
// request being dispatched so that every log line emitted while
// handling it can be correlated
func PutRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID returns the request identifier stored in the
// context, or the empty string if there is none
func GetRequestID(ctx context.Context) string {
	v := ctx.Value(contextKeyRequestID)
	if v == nil {
		return ""
	}

	requestID, ok := v.(string)
	if !ok {
		return ""
	}

	return requestID
}
