// Package contract holds the behaviour every router adapter must share so
// that middleware sees the same pipeline regardless of the engine below.
package contract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/correlation/pkg/server/router"
)

type ctxKey struct{}

type contractCase struct {
	name string
	run  func(t *testing.T, r router.Router)
}

var cases = []contractCase{
	{"get_and_post", func(t *testing.T, r router.Router) {
		r.GET("/items", func(c router.Context) error { return c.String(http.StatusOK, "list") })
		r.POST("/items", func(c router.Context) error { return c.String(http.StatusCreated, "created") })

		if res := do(r, http.MethodGet, "/items", nil); res.Code != http.StatusOK || res.Body.String() != "list" {
			t.Fatalf("GET = %d %q", res.Code, res.Body.String())
		}
		if res := do(r, http.MethodPost, "/items", strings.NewReader("{}")); res.Code != http.StatusCreated {
			t.Fatalf("POST = %d", res.Code)
		}
		if res := do(r, http.MethodGet, "/missing", nil); res.Code != http.StatusNotFound {
			t.Fatalf("unregistered route = %d, want 404", res.Code)
		}
	}},
	{"unmatched_requests_run_pipeline", func(t *testing.T, r router.Router) {
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Request-ID", "assigned")
				return next(c)
			}
		})
		r.GET("/items", func(c router.Context) error { return c.String(http.StatusOK, "list") })

		tests := []struct {
			method string
			path   string
			want   int
		}{
			{http.MethodGet, "/does-not-exist", http.StatusNotFound},
			{http.MethodPost, "/items", http.StatusMethodNotAllowed},
		}
		for _, tt := range tests {
			res := do(r, tt.method, tt.path, nil)
			if res.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, res.Code, tt.want)
			}
			if got := res.Header().Get("X-Request-ID"); got != "assigned" {
				t.Errorf("%s %s missing pipeline header, got %q", tt.method, tt.path, got)
			}
		}
	}},
	{"route_pattern", func(t *testing.T, r router.Router) {
		r.GET("/users/:id", func(c router.Context) error {
			return c.String(http.StatusOK, router.RoutePattern(c))
		})
		if got := do(r, http.MethodGet, "/users/9", nil).Body.String(); got != "/users/:id" {
			t.Fatalf("RoutePattern() = %q", got)
		}
	}},
	{"path_and_query_params", func(t *testing.T, r router.Router) {
		r.GET("/users/:id/orders/:order", func(c router.Context) error {
			return c.String(http.StatusOK, c.Param("id")+"/"+c.Param("order")+"?"+c.Query("sort"))
		})
		res := do(r, http.MethodGet, "/users/7/orders/42?sort=asc", nil)
		if got := res.Body.String(); got != "7/42?asc" {
			t.Fatalf("params = %q", got)
		}
	}},
	{"middleware_order", func(t *testing.T, r router.Router) {
		var order []string
		mark := func(name string) router.MiddlewareFunc {
			return func(next router.HandlerFunc) router.HandlerFunc {
				return func(c router.Context) error {
					order = append(order, name)
					return next(c)
				}
			}
		}
		r.Use(mark("first"))
		r.Use(mark("second"))
		r.GET("/ordered", func(c router.Context) error {
			order = append(order, "handler")
			return c.String(http.StatusOK, "ok")
		}, mark("route"))

		do(r, http.MethodGet, "/ordered", nil)
		if got := strings.Join(order, ","); got != "first,second,route,handler" {
			t.Fatalf("order = %s", got)
		}
	}},
	{"use_applies_to_later_routes", func(t *testing.T, r router.Router) {
		r.GET("/early", func(c router.Context) error { return c.String(http.StatusOK, "early") })
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Stamp", "1")
				return next(c)
			}
		})
		r.GET("/late", func(c router.Context) error { return c.String(http.StatusOK, "late") })

		if do(r, http.MethodGet, "/early", nil).Header().Get("X-Stamp") != "" {
			t.Fatal("middleware leaked onto a route registered before Use")
		}
		if do(r, http.MethodGet, "/late", nil).Header().Get("X-Stamp") != "1" {
			t.Fatal("middleware missing on a route registered after Use")
		}
	}},
	{"header_set_before_handler_is_sent", func(t *testing.T, r router.Router) {
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Request-ID", "fixed")
				return next(c)
			}
		})
		r.GET("/json", func(c router.Context) error {
			return c.JSON(http.StatusAccepted, map[string]string{"id": c.Response().Header().Get("X-Request-ID")})
		})
		res := do(r, http.MethodGet, "/json", nil)
		if res.Code != http.StatusAccepted || res.Header().Get("X-Request-ID") != "fixed" {
			t.Fatalf("got %d header %q", res.Code, res.Header().Get("X-Request-ID"))
		}
		if ct := res.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		if strings.TrimSpace(res.Body.String()) != `{"id":"fixed"}` {
			t.Fatalf("body = %q", res.Body.String())
		}
	}},
	{"store_and_request_context", func(t *testing.T, r router.Router) {
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Set("request_id", "abc")
				c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), ctxKey{}, "abc")))
				return next(c)
			}
		})
		r.GET("/store", func(c router.Context) error {
			fromStore, _ := c.Get("request_id").(string)
			fromCtx, _ := c.Request().Context().Value(ctxKey{}).(string)
			if c.Get("absent") != nil {
				return errors.New("unexpected value")
			}
			return c.String(http.StatusOK, fromStore+"|"+fromCtx)
		})
		if got := do(r, http.MethodGet, "/store", nil).Body.String(); got != "abc|abc" {
			t.Fatalf("got %q", got)
		}
	}},
	{"error_without_response_is_generic_500", func(t *testing.T, r router.Router) {
		r.GET("/fail", func(c router.Context) error { return errors.New("secret detail") })
		res := do(r, http.MethodGet, "/fail", nil)
		if res.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", res.Code)
		}
		if res.Body.String() != "Internal Server Error\n" {
			t.Fatalf("body leaked detail: %q", res.Body.String())
		}
	}},
	{"error_after_response_keeps_status", func(t *testing.T, r router.Router) {
		r.GET("/partial", func(c router.Context) error {
			_ = c.String(http.StatusTeapot, "short")
			return errors.New("late failure")
		})
		res := do(r, http.MethodGet, "/partial", nil)
		if res.Code != http.StatusTeapot || res.Body.String() != "short" {
			t.Fatalf("got %d %q", res.Code, res.Body.String())
		}
	}},
	{"response_writer_tracks_status", func(t *testing.T, r router.Router) {
		var before, after bool
		var status int
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				before = c.Response().Written()
				err := next(c)
				after = c.Response().Written()
				status = c.Response().Status()
				return err
			}
		})
		r.GET("/created", func(c router.Context) error {
			c.Response().WriteHeader(http.StatusCreated)
			c.Response().WriteHeader(http.StatusBadRequest)
			_, err := io.WriteString(c.Response(), "done")
			return err
		})
		res := do(r, http.MethodGet, "/created", nil)
		if before || !after || status != http.StatusCreated || res.Code != http.StatusCreated {
			t.Fatalf("before=%v after=%v status=%d code=%d", before, after, status, res.Code)
		}
	}},
}

// TestRouterContract runs the conformance suite every adapter must pass.
func TestRouterContract(t *testing.T, createRouter func() router.Router) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, createRouter())
		})
	}
}

func do(r router.Router, method, path string, body io.Reader) *httptest.ResponseRecorder {
	if body == nil {
		body = http.NoBody
	}
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
