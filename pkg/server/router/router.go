// Package router abstracts the HTTP pipeline that hosts middleware.
// Adapters exist for net/http, gin-gonic and gorilla/mux; they share the
// Exchange context and the Pipeline middleware list defined here.
package router

import "net/http"

// Router registers routes and middleware and serves HTTP.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Use applies middleware to routes registered afterwards, in call order.
	Use(middleware ...MiddlewareFunc)

	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc handles one request. A returned error with no response
// written yields a generic 500.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context gives handlers router-agnostic access to the exchange.
type Context interface {
	Request() *http.Request
	// SetRequest replaces the request seen by downstream handlers, usually
	// to attach values to its context.
	SetRequest(r *http.Request)

	Response() ResponseWriter

	// Param returns a path parameter (e.g. /users/:id)
	Param(name string) string
	Query(name string) string

	JSON(code int, v interface{}) error
	String(code int, s string) error

	// Get and Set access a per-request value store.
	Get(key string) interface{}
	Set(key string, value interface{})
}

// ResponseWriter tracks the status of a response.
type ResponseWriter interface {
	http.ResponseWriter
	Status() int
	Written() bool
}

// RouteKey is the Context store key holding the matched route pattern.
const RouteKey = "route"

// RoutePattern returns the pattern of the route that matched, or "" when
// the request is answered by a fallback handler.
func RoutePattern(c Context) string {
	pattern, _ := c.Get(RouteKey).(string)
	return pattern
}

// NotFound answers requests that match no route.
func NotFound(c Context) error {
	http.NotFound(c.Response(), c.Request())
	return nil
}

// MethodNotAllowed answers requests whose path is routed for other methods.
func MethodNotAllowed(c Context) error {
	http.Error(c.Response(), http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return nil
}

// WriteInternalError writes a bare 500 response. The body never carries
// error details.
func WriteInternalError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Chain applies middleware to h so that middleware[0] runs first.
func Chain(h HandlerFunc, middleware ...MiddlewareFunc) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
