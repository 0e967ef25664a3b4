package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	reqid "github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
	"github.com/nimburion/correlation/pkg/server/router/nethttp"
)

// Property: whatever the client sends as X-Request-ID, the response carries
// exactly one freshly generated, well-formed identifier that the handler saw too.
func TestProperty_FreshIdentifierPerRequest(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genScheme := gen.OneConstOf(reqid.SchemeUUID, reqid.SchemeULID)
	genInbound := gen.OneGenOf(gen.Const(""), gen.AlphaString())

	properties.Property("response id is fresh, valid and observed downstream", prop.ForAll(
		func(scheme reqid.Scheme, inbound string) bool {
			m, err := New(Config{Scheme: scheme})
			if err != nil {
				return false
			}
			r := nethttp.NewRouter()
			r.Use(m.Handler())
			var seen string
			r.GET("/test", func(c router.Context) error {
				seen = GetRequestID(c.Request().Context())
				return c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if inbound != "" {
				req.Header.Set(RequestIDHeader, inbound)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			values := rec.Header().Values(RequestIDHeader)
			if len(values) != 1 {
				return false
			}
			id := values[0]
			return id == seen &&
				(inbound == "" || id != inbound) &&
				reqid.Validate(scheme, id) == nil
		},
		genScheme, genInbound,
	))

	properties.TestingRun(t)
}

// Property: successive requests through one ULID plugin are strictly increasing.
func TestProperty_ULIDRequestsIncrease(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("ids sort in request order", prop.ForAll(
		func(n int) bool {
			m, err := New(DefaultConfig())
			if err != nil {
				return false
			}
			prev := ""
			for i := 0; i < n; i++ {
				id, err := m.Assign(http.Header{})
				if err != nil || id <= prev {
					return false
				}
				prev = id
			}
			return true
		},
		gen.IntRange(2, 200),
	))

	properties.TestingRun(t)
}
