package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/EdilKulzhabay/courier/internal/config"
	"github.com/EdilKulzhabay/courier/internal/http/handlers"
	"github.com/EdilKulzhabay/courier/internal/http/middleware"
	"github.com/EdilKulzhabay/courier/internal/http/middleware/ratelimit"
	"github.com/EdilKulzhabay/courier/internal/http/pprofserver"
	"github.com/EdilKulzhabay/courier/internal/http/router"
	"github.com/EdilKulzhabay/courier/internal/location"
	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/metrics"
	"github.com/EdilKulzhabay/courier/internal/notify"
	"github.com/EdilKulzhabay/courier/internal/offer"
	"github.com/EdilKulzhabay/courier/internal/session"
	"github.com/EdilKulzhabay/courier/internal/tracker"
)

type handlersIn struct {
	dig.In

	Logger     logx.Logger
	Offers     *offer.Machine
	Dispatcher *notify.Dispatcher
	Tracker    *tracker.Tracker
	Engine     *location.Engine
	Session    *session.Provider
}

func newHandlers(in handlersIn) router.Routes {
	logger := in.Logger.With(logx.Component("http"))
	return router.Routes{
		Base:          handlers.New(logger),
		Offer:         handlers.NewOfferHandler(logger, in.Offers),
		Notifications: handlers.NewNotificationHandler(logger, in.Dispatcher),
		Location:      handlers.NewLocationHandler(logger, in.Tracker, in.Engine),
		Session:       handlers.NewSessionHandler(logger, in.Session),
	}
}

func newRouter(
	logger logx.Logger,
	set *metrics.Set,
	reg *prometheus.Registry,
	rl *ratelimit.Middleware,
	routes router.Routes,
) http.Handler {
	return router.New(router.Options{
		Observability: middleware.Observability(logger.With(logx.Component("http")), set.HTTPRequests, set.HTTPDuration),
		RateLimit:     rl.Handler(),
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Timeout:       requestTimeout,
	}, routes)
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func newPprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: pprofserver.New(cfg.Pprof.Addr, pprofserver.Config{
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})}
}
