package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/category/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/category/:id", "404"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/category/"+id, nil))
	}
	after := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/category/:id", "404"))

	if after-before != 2 {
		t.Fatalf("counter delta = %v, want 2", after-before)
	}
}

func TestPrometheusHandlerExposesQuizMetrics(t *testing.T) {
	Init()
	Init()
	QuizStarted.Inc()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", PrometheusHandler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "quiz_started_total") {
		t.Fatalf("metrics output missing quiz_started_total (status %d)", w.Code)
	}
}
