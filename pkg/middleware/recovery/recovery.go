// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
)

// ErrorResponse is the JSON body sent after a recovered panic.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery creates middleware that recovers from panics in downstream
// handlers. The panic is logged at ERROR with its stack and the request ID,
// and the client receives a JSON 500 carrying only the request ID.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				requestID := requestid.FromContext(c.Request().Context())

				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if c.Response().Written() {
					return
				}
				resp := ErrorResponse{
					Error:     "internal_server_error",
					Message:   "an unexpected error occurred",
					RequestID: requestID,
				}
				if jerr := c.JSON(http.StatusInternalServerError, resp); jerr != nil {
					log.Error("failed to send error response", "request_id", requestID, "error", jerr)
				}
			}()

			return next(c)
		}
	}
}
