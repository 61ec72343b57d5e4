package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/EdilKulzhabay/courier/internal/http/handlers"
)

// Options holds the cross-cutting pieces of the router. Nil middlewares are
// skipped.
type Options struct {
	Observability func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Metrics       http.Handler
	// Timeout bounds every request. Accepting an order and probing every
	// location tier can take tens of seconds, so keep it generous.
	Timeout time.Duration
}

// Routes groups the API handlers.
type Routes struct {
	Base          *handlers.Handlers
	Offer         *handlers.OfferHandler
	Notifications *handlers.NotificationHandler
	Location      *handlers.LocationHandler
	Session       *handlers.SessionHandler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(opts Options, h Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Observability != nil {
		r.Use(opts.Observability)
	}
	r.Use(middleware.Recoverer)
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/ping", h.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.Base.HealthcheckHead))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.NotFound(http.HandlerFunc(h.Base.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(h.Base.MethodNotAllowed))

	// The limiter runs inline on each endpoint so its key sees the final
	// route pattern, not the mount point.
	limited := func(r chi.Router) chi.Router {
		if opts.RateLimit == nil {
			return r
		}
		return r.With(opts.RateLimit)
	}

	if h.Offer != nil {
		r.Route("/offer", func(r chi.Router) {
			r = limited(r)
			r.Get("/", h.Offer.Get)
			r.Post("/accept", h.Offer.Accept)
			r.Post("/decline", h.Offer.Decline)
			r.Post("/ack", h.Offer.Acknowledge)
			r.Post("/panel/drag", h.Offer.Drag)
			r.Post("/panel/expand", h.Offer.Expand)
		})
	}
	if h.Notifications != nil {
		limited(r).Post("/notifications", h.Notifications.Post)
	}
	if h.Location != nil {
		r.Route("/location", func(r chi.Router) {
			r = limited(r)
			r.Post("/probe", h.Location.Probe)
			r.Post("/movement", h.Location.Movement)
			r.Get("/status", h.Location.Status)
			r.Get("/diagnostics", h.Location.Diagnostics)
		})
	}
	if h.Session != nil {
		limited(r).Get("/order", h.Session.Order)
		r.Route("/session", func(r chi.Router) {
			r = limited(r)
			r.Get("/", h.Session.Get)
			r.Post("/", h.Session.Login)
			r.Post("/online", h.Session.Online)
			r.Post("/logout", h.Session.Logout)
		})
	}

	return r
}
