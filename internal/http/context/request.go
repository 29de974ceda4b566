package context

import (
	"context"
)

type contextKey string

const keyRequestID contextKey = "requestID"

// RequestID returns the identifier assigned to the current request, or an
// empty string outside of a request.
func RequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(keyRequestID).(string)
	if !ok {
		return ""
	}

	return requestID
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}
