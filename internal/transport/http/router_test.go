package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorcheck/internal/platform/metrics"
	"donorcheck/pkg/platform/httputil"
	"donorcheck/pkg/platform/middleware/requestid"
	"donorcheck/pkg/testutil"
)

type pingModule struct{}

func (pingModule) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	deps := Deps{
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	}
	return NewRouter(deps, pingModule{}), reg
}

func TestNewRouter(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("module routes are mounted and carry a request id", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/ping"))
		testutil.AssertStatusOK(t, rr)
		assert.NotEmpty(t, rr.Header().Get(requestid.Header))
	})

	t.Run("unknown route uses the error envelope", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("wrong method uses the error envelope", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/ping"))
		testutil.AssertStatusAndError(t, rr, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	t.Run("panics are recovered", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/panic"))
		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/ping"))
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
		body := string(testutil.ReadBody(t, rr))
		require.True(t, strings.Contains(body, "donorcheck_http_requests_total"))
		assert.Contains(t, body, `route="/ping"`)
	})
}
