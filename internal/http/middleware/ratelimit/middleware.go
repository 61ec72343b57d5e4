package ratelimit

import (
	"io"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Middleware представляет собой middleware для ограничения количества запросов
type Middleware struct {
	logger  logx.Logger        // логгер
	counter prometheus.Counter // счетчик
	limiter Limiter            // лимитер
}

// New создает новый Middleware
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
	}
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			route := routeOf(r)

			if !m.limiter.Allow(ip, route) {
				// считаю отказы
				if m.counter != nil {
					m.counter.Inc()
				}
				m.logger.Warn("rate limit exceeded",
					logx.String("ip", ip),
					logx.String("method", r.Method),
					logx.String("route", route),
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
					// клиент мог оборвать соединение
					m.logger.Debug("rate limit response write failed",
						logx.String("ip", ip),
						logx.Err(err),
					)
				}
				// не вызываю next мы уже ответили
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// routeOf returns the matched chi pattern when the middleware runs inside a
// route group, otherwise the raw path.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return r.Method + " " + p
		}
	}
	return r.Method + " " + r.URL.Path
}

func clientIP(r *http.Request) string {
	// пока без нормализации
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
