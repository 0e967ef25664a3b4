package router

import (
	"net/http"
	"sync"
)

// Pipeline holds the middleware registered with Use. Adapters embed it and
// freeze the current list into each route at registration time.
type Pipeline struct {
	mu         sync.RWMutex
	middleware []MiddlewareFunc
}

// Use appends middleware for routes registered afterwards.
func (p *Pipeline) Use(middleware ...MiddlewareFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware...)
}

// Build chains the registered middleware, then routeMiddleware, around h.
func (p *Pipeline) Build(h HandlerFunc, routeMiddleware []MiddlewareFunc) HandlerFunc {
	p.mu.RLock()
	chain := make([]MiddlewareFunc, 0, len(p.middleware)+len(routeMiddleware))
	chain = append(chain, p.middleware...)
	p.mu.RUnlock()
	return Chain(h, append(chain, routeMiddleware...)...)
}

// Fallback serves h through the middleware registered so far. Adapters
// route unmatched requests here so 404 and 405 answers pass the same
// pipeline as routed ones.
func (p *Pipeline) Fallback(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(p.Build(h, nil), w, r, "", nil)
	})
}

// Serve runs h for one request matched by route, which is "" for unmatched
// requests. An error with nothing written becomes a generic 500.
func Serve(h HandlerFunc, w http.ResponseWriter, r *http.Request, route string, params ParamFunc) {
	ex := NewExchange(w, r, params)
	if route != "" {
		ex.Set(RouteKey, route)
	}
	if err := h(ex); err != nil && !ex.Response().Written() {
		WriteInternalError(ex.Response())
	}
}
