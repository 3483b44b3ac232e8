package middleware

import (
	"net/http"
	"strconv"
	"time"

	"sistema-hospitalar/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLogMiddleware writes one log entry and one metric sample per request.
type AccessLogMiddleware struct {
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewAccessLogMiddleware(log *logrus.Logger, m *metrics.Metrics) *AccessLogMiddleware {
	return &AccessLogMiddleware{log: log, metrics: m}
}

func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		m.metrics.ObserveHTTP(routeTemplate(r), r.Method, strconv.Itoa(rec.status), elapsed.Seconds())

		m.log.WithFields(logrus.Fields{
			"request_id":  GetRequestIDFromContext(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("request completed")
	})
}

// routeTemplate keeps path parameters out of metric labels.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
