package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/rows/{index}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})

	for _, path := range []string{"/rows/0", "/rows/1", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/rows/{index}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveStore(t *testing.T) {
	m := New()
	m.ObserveStore("load", nil)
	m.ObserveStore("load", nil)
	m.ObserveStore("save", errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeOps.WithLabelValues("load", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("save", "error")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveStore("load", nil) })
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveStore("save", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rows_store_operations_total{op="save",result="ok"} 1`)
}
