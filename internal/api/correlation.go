package api

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

var correlationKey = correlationIDKey{}

// ContextWithCorrelation attaches a correlation identifier to the context so
// every request issued within one user action shares it.
func ContextWithCorrelation(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(correlationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey, strings.TrimSpace(correlationID))
}

// CorrelationIDFromContext extracts the correlation identifier from context,
// minting a fresh one when none is bound.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if value := ctx.Value(correlationKey); value != nil {
			if id, ok := value.(string); ok && id != "" {
				return id
			}
		}
	}
	return uuid.NewString()
}
