// Package gorilla implements router.Router on gorilla/mux.
package gorilla

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nimburion/correlation/pkg/server/router"
)

// GorillaRouter implements router.Router using gorilla/mux.
type GorillaRouter struct {
	router.Pipeline
	mux *mux.Router
}

// NewRouter creates a new GorillaRouter. Unmatched requests and wrong
// methods are answered through the pipeline with 404 and 405.
func NewRouter() *GorillaRouter {
	r := &GorillaRouter{mux: mux.NewRouter()}
	r.mux.NotFoundHandler = r.Fallback(router.NotFound)
	r.mux.MethodNotAllowedHandler = r.Fallback(router.MethodNotAllowed)
	return r
}

func (r *GorillaRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *GorillaRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// ServeHTTP implements http.Handler.
func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *GorillaRouter) handle(method, path string, h router.HandlerFunc, middleware []router.MiddlewareFunc) {
	built := r.Build(h, middleware)
	r.mux.HandleFunc(muxPath(path), func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		router.Serve(built, w, req, path, func(name string) string { return vars[name] })
	}).Methods(method)
}

// muxPath converts :name segments to gorilla's {name} form.
func muxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if name, ok := strings.CutPrefix(part, ":"); ok {
			parts[i] = "{" + name + "}"
		}
	}
	return strings.Join(parts, "/")
}
