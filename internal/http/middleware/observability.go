package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Observability - middleware for prometheus. Both collectors are optional.
func Observability(logger logx.Logger, requests *prometheus.CounterVec, duration *prometheus.HistogramVec) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor) // через прокси читаем ответ
			next.ServeHTTP(ww, r)                              // пропускаем дальше
			path := pathPattern(r)                             // что бы не взорвать прометеус))
			tm := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			status := strconv.Itoa(code)

			if requests != nil {
				requests.WithLabelValues(r.Method, path, status).Inc()
			}
			if duration != nil {
				duration.WithLabelValues(r.Method, path, status).Observe(tm.Seconds())
			}

			fields := []logx.Field{
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", tm),
				logx.String("req_id", chimw.GetReqID(r.Context())),
			}
			if code >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
