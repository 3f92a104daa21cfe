package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_CountsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, reg := NewTestManagerAndRegistry()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "/sessions/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GaugeRequests))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestManager_DomainCounters(t *testing.T) {
	m := NewTestManager()
	m.CounterSetsLogged.Inc()
	m.CounterSessionsEnded.WithLabelValues("CMP").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSetsLogged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSessionsEnded.WithLabelValues("CMP")))
}
