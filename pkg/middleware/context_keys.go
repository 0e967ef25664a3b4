// Package middleware groups the request pipeline plugins. Subpackages share
// the keys below when they exchange values through router.Context.
package middleware

// ContextKey is a typed key for router.Context store values.
type ContextKey string

const (
	// RequestIDKey holds the identifier assigned by the requestid plugin.
	RequestIDKey ContextKey = "request_id"
	// ServiceKey holds the service name used to tag log entries.
	ServiceKey ContextKey = "service"
)

// String returns the key as stored in router.Context.
func (k ContextKey) String() string { return string(k) }
