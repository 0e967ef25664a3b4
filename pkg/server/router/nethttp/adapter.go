// Package nethttp implements router.Router on net/http with a small
// pattern matcher.
package nethttp

import (
	"net/http"
	"strings"
	"sync"

	"github.com/nimburion/correlation/pkg/server/router"
)

// NetHTTPRouter implements router.Router using net/http.
type NetHTTPRouter struct {
	router.Pipeline

	mu     sync.RWMutex
	routes []route
}

type route struct {
	method  string
	path    string
	pattern []string
	handler router.HandlerFunc
}

// NewRouter creates a new NetHTTPRouter.
func NewRouter() *NetHTTPRouter {
	return &NetHTTPRouter{}
}

// GET registers a GET route.
func (r *NetHTTPRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.addRoute(http.MethodGet, path, handler, middleware)
}

// POST registers a POST route.
func (r *NetHTTPRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.addRoute(http.MethodPost, path, handler, middleware)
}

// ServeHTTP implements http.Handler. The first matching route wins.
// Unmatched requests still run the middleware registered with Use.
func (r *NetHTTPRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	segments := split(req.URL.Path)
	pathMatched := false
	for _, rt := range routes {
		params, ok := matchSegments(rt.pattern, segments)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			pathMatched = true
			continue
		}
		router.Serve(rt.handler, w, req, rt.path, func(name string) string { return params[name] })
		return
	}

	if pathMatched {
		r.Fallback(router.MethodNotAllowed).ServeHTTP(w, req)
		return
	}
	r.Fallback(router.NotFound).ServeHTTP(w, req)
}

func (r *NetHTTPRouter) addRoute(method, path string, handler router.HandlerFunc, middleware []router.MiddlewareFunc) {
	built := r.Build(handler, middleware)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{method: method, path: path, pattern: split(path), handler: built})
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// matchSegments matches pattern segments like users/:id against a path.
func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	var params map[string]string
	for i, part := range pattern {
		if name, ok := strings.CutPrefix(part, ":"); ok {
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = path[i]
			continue
		}
		if part != path[i] {
			return nil, false
		}
	}
	return params, true
}
