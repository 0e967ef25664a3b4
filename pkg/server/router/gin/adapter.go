// Package gin implements router.Router on gin-gonic/gin.
package gin

import (
	"net/http"

	ginpkg "github.com/gin-gonic/gin"

	"github.com/nimburion/correlation/pkg/server/router"
)

// GinRouter implements router.Router using gin-gonic/gin. gin's own
// middleware stack is unused; the pipeline runs inside each route handler.
type GinRouter struct {
	router.Pipeline
	engine *ginpkg.Engine
}

// NewRouter creates a new GinRouter in release mode. Unmatched requests and
// wrong methods are answered through the pipeline with 404 and 405.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	r := &GinRouter{engine: ginpkg.New()}
	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(r.fallback(router.NotFound))
	r.engine.NoMethod(r.fallback(router.MethodNotAllowed))
	return r
}

// GET registers a handler for HTTP GET requests at the specified path.
func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

// POST registers a handler for HTTP POST requests at the specified path.
func (r *GinRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// ServeHTTP implements http.Handler.
func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *GinRouter) handle(method, path string, h router.HandlerFunc, middleware []router.MiddlewareFunc) {
	built := r.Build(h, middleware)
	r.engine.Handle(method, path, func(gc *ginpkg.Context) {
		router.Serve(built, gc.Writer, gc.Request, path, gc.Param)
	})
}

func (r *GinRouter) fallback(h router.HandlerFunc) ginpkg.HandlerFunc {
	return func(gc *ginpkg.Context) {
		r.Fallback(h).ServeHTTP(gc.Writer, gc.Request)
	}
}
