package httpserver

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/better-analytics/dashboard/internal/auth/gate"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ba_http_requests_total",
	Help: "HTTP requests by method, route pattern and status.",
}, []string{"method", "pattern", "status"})

// withPrincipal resolves the session once per request and stashes the
// principal for the gate. Absence is fine here; the gate decides whether
// it matters.
func (s *Server) withPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := s.sessions.Resolve(r); ok {
			r = r.WithContext(gate.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		httpRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
	})
}
