package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iho/bankbook/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP request metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses resource IDs so metric labels stay low cardinality.
func normalizePath(path string) string {
	return collapseID(collapseID(path, "/api/v1/accounts/"), "/api/v1/transactions/")
}

func collapseID(path, prefix string) string {
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return path
	}
	if path[len(prefix)] == '/' {
		return path
	}

	suffix := ""
	for i := len(prefix); i < len(path); i++ {
		if path[i] == '/' {
			suffix = path[i:]
			break
		}
	}

	return prefix + ":id" + suffix
}
