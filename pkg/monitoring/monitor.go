package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_started_total",
			Help: "Number of quizzes started",
		},
	)

	// QuizSubmitted outcome: ok | conflict | validation | not_found | error
	QuizSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submitted_total",
			Help: "Number of quiz submissions by outcome",
		},
		[]string{"outcome"},
	)

	QuizScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score",
			Help:    "Score of submitted quizzes",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	McqImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcq_import_rows_total",
			Help: "Rows processed by MCQ bulk import",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, QuizStarted, QuizSubmitted, QuizScore, McqImported)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
