// Package metrics exports the Prometheus counters and histograms of the
// service and the gin middleware that feeds the HTTP ones.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clipnote"

// Summary paths.
const (
	SummaryPathLLM    = "llm"
	SummaryPathLocal  = "local"
	SummaryPathSimple = "simple"
	SummaryPathEmpty  = "empty"
)

// Chat response paths.
const (
	ChatPathLLM    = "llm"
	ChatPathSimple = "simple"
	ChatPathNone   = "none"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route"})

	ContentProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_processed_total",
		Help:      "Captured URLs by platform and outcome (success, no_transcript, error)",
	}, []string{"platform", "outcome"})

	SummaryPath = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summaries_total",
		Help:      "Generated summaries by the path that produced them",
	}, []string{"path"})

	ChatResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_responses_total",
		Help:      "Chat replies by the path that produced them",
	}, []string{"path"})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_processed_total",
		Help:      "Background jobs by task type and final status",
	}, []string{"task_type", "status"})
)

func RecordContentProcessed(platform, outcome string) {
	ContentProcessed.WithLabelValues(platform, outcome).Inc()
}

func RecordSummaryPath(path string) {
	SummaryPath.WithLabelValues(path).Inc()
}

func RecordChatResponse(path string) {
	ChatResponses.WithLabelValues(path).Inc()
}

func RecordJob(taskType, status string) {
	JobsProcessed.WithLabelValues(taskType, status).Inc()
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
