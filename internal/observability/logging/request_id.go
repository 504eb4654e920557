package logging

import (
	"context"

	"github.com/google/uuid"
)

const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ValidateAndExtractRequestID returns id when it is a UUID and a fresh one
// otherwise.
func ValidateAndExtractRequestID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewString()
}
