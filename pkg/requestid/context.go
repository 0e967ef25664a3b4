package requestid

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the request identifier.
func NewContext(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request identifier stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
