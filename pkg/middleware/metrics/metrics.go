// Package metrics records Prometheus HTTP metrics for each request.
package metrics

import (
	"net/http"
	"time"

	obsmetrics "github.com/nimburion/correlation/pkg/observability/metrics"
	"github.com/nimburion/correlation/pkg/server/router"
)

// UnmatchedPath labels requests that no route matched, keeping the path
// label bounded.
const UnmatchedPath = "unmatched"

// Metrics creates middleware that records request duration, count and the
// in-flight gauge on m. The path label is the route pattern.
func Metrics(m *obsmetrics.HTTPMetrics) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			m.IncrementInFlight()
			defer m.DecrementInFlight()

			start := time.Now()
			err := next(c)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}
			path := router.RoutePattern(c)
			if path == "" {
				path = UnmatchedPath
			}
			m.Record(c.Request().Method, path, status, time.Since(start))

			return err
		}
	}
}
