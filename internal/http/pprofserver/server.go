package pprofserver

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config stores pprof server settings.
type Config struct {
	User string
	Pass string
}

// Handler returns the profiler (/debug/pprof/*, /debug/vars) guarded by
// authOrLocalOnly.
func Handler(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return authOrLocalOnly(next, cfg) })
	r.Mount("/debug", chimw.Profiler())
	return r
}

// New returns a profiling server for addr. WriteTimeout stays unset so CPU
// profiles and traces can stream for their full duration.
func New(addr string, cfg Config) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Handler(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func authOrLocalOnly(next http.Handler, cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isLoopback(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		if cfg.User == "" || cfg.Pass == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureEq(u, s string) bool {
	if len(u) != len(s) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u), []byte(s)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimSpace(host)

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}
