// internal/server/middleware.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"eventgate/internal/common/metrics"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID assigns a request id when the fronting proxy did not.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// withTelemetry logs each request and records prometheus and otel
// measurements, with a span per request.
func (s *Server) withTelemetry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := s.obs.StartSpan(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)
		route := r.URL.Path
		status := strconv.Itoa(rec.status)

		metrics.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
		s.obs.RecordRequest(ctx, route, status)
		s.obs.RecordRequestDuration(ctx, duration, route)

		s.logger.Info("request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": duration.Milliseconds(),
			"requestId":  w.Header().Get("X-Request-ID"),
		})
	})
}
