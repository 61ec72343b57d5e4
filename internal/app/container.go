package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/config"
	"github.com/EdilKulzhabay/courier/internal/gateway/backend"
	"github.com/EdilKulzhabay/courier/internal/gateway/device"
	"github.com/EdilKulzhabay/courier/internal/location"
	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/metrics"
	"github.com/EdilKulzhabay/courier/internal/notify"
	"github.com/EdilKulzhabay/courier/internal/offer"
	"github.com/EdilKulzhabay/courier/internal/repository"
	"github.com/EdilKulzhabay/courier/internal/session"
	"github.com/EdilKulzhabay/courier/internal/tracker"
	"github.com/EdilKulzhabay/courier/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	openStore  storeOpener
	logFatalf  func(string, ...interface{})
	worker     bool
}

// NewContainerBuilder returns a builder for the full agent: HTTP API, offers,
// tracker and notification consumer.
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		openStore:  openStore,
		logFatalf:  log.Fatalf,
	}
}

// NewWorkerContainerBuilder returns a builder for the headless worker: tracker
// and notification consumer, no HTTP API and no offers.
func NewWorkerContainerBuilder() *ContainerBuilder {
	b := NewContainerBuilder()
	b.worker = true
	return b
}

// WithConfig replaces config.Load.
func (b *ContainerBuilder) WithConfig(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithStoreOpen sets the store opening function
func (b *ContainerBuilder) WithStoreOpen(fn storeOpener) *ContainerBuilder {
	if fn != nil {
		b.openStore = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStore(container, b.openStore); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerLocation(container); err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	if b.worker {
		if err := registerWorkerNotifications(container); err != nil {
			return nil, fmt.Errorf("notifications: %w", err)
		}
		return container, nil
	}
	if err := registerOffers(container); err != nil {
		return nil, fmt.Errorf("offers: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the agent container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewWorkerContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		func() clock.Clock { return clock.Real{} },
		provideMetrics,
	)
}

// provideMetrics registers the agent collectors plus the Go runtime and
// process collectors on a private registry.
func provideMetrics() (*metrics.Set, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, nil, fmt.Errorf("register go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, nil, fmt.Errorf("register process collector: %w", err)
	}
	set := metrics.NewSet()
	if err := set.Register(reg); err != nil {
		return nil, nil, fmt.Errorf("register agent metrics: %w", err)
	}
	return set, reg, nil
}

func registerStore(container *dig.Container, open storeOpener) error {
	providerKV := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (repository.KV, storeCloser, error) {
		return open(ctx, logger, cfg.Store)
	}
	return provideAll(container,
		providerKV,
		repository.NewRecords,
	)
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, records *repository.Records) *backend.Client {
			return backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, records)
		},
		func(client *backend.Client, logger logx.Logger, set *metrics.Set, cfg *config.Config) *backend.RetryingGateway {
			return backend.NewRetryingGateway(client, logger.With(logx.Component("backend")), set.GatewayRetries, backend.RetryConfig{
				MaxAttempts: cfg.Backend.Retry.MaxAttempts,
				BaseDelay:   cfg.Backend.Retry.BaseDelay,
				MaxDelay:    cfg.Backend.Retry.MaxDelay,
			})
		},
		newPlatform,
	)
}

// newPlatform returns the device bridge, or a fixed position when one is
// configured (headless workers and local runs).
func newPlatform(cfg *config.Config, clk clock.Clock) (location.Platform, error) {
	if cfg.Device.Fixed != "" {
		fixed, err := device.ParseFixed(cfg.Device.Fixed, clk)
		if err != nil {
			return nil, fmt.Errorf("device fixed position: %w", err)
		}
		return fixed, nil
	}
	return device.NewBridge(cfg.Device.BridgeURL), nil
}

func registerLocation(container *dig.Container) error {
	return provideAll(container,
		func(
			platform location.Platform,
			gw *backend.RetryingGateway,
			clk clock.Clock,
			logger logx.Logger,
			set *metrics.Set,
			cfg *config.Config,
		) *location.Engine {
			return location.NewEngine(platform, gw, gw, clk, logger, location.Metrics{
				Acquisitions: set.LocationAcquisitions,
				Reports:      set.LocationReports,
			}, location.Config{
				Freshness:         cfg.Location.Freshness,
				MaxCachedAccuracy: cfg.Location.MaxCachedAccuracy,
				TierTimeout:       cfg.Device.TierTimeout,
				EscalateAfter:     cfg.Location.EscalateAfter,
			})
		},
		func(records *repository.Records, gw *backend.RetryingGateway, logger logx.Logger) *session.Provider {
			return session.NewProvider(records, gw, logger)
		},
		func(
			engine *location.Engine,
			ids *session.Provider,
			gw *backend.RetryingGateway,
			clk clock.Clock,
			logger logx.Logger,
			cfg *config.Config,
		) *tracker.Tracker {
			return tracker.New(engine, ids, gw, clk, logger, tracker.Config{
				Interval:       cfg.Location.Interval,
				WatchdogWindow: cfg.Location.WatchdogWindow,
				WatchdogCheck:  cfg.Location.WatchdogCheck,
				MinDistance:    cfg.Location.MinDistance,
			})
		},
		newConsumer,
	)
}

func newConsumer(cfg *config.Config, logger logx.Logger, d *notify.Dispatcher) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, d.Handle)
}

// registerWorkerNotifications wires a dispatcher without offers: the worker
// only answers location probes.
func registerWorkerNotifications(container *dig.Container) error {
	return provideAll(container,
		func(tr *tracker.Tracker, ids *session.Provider, logger logx.Logger) *notify.Dispatcher {
			return notify.NewDispatcher(nil, tr, ids, logger)
		},
	)
}

func registerOffers(container *dig.Container) error {
	return provideAll(container,
		func(
			gw *backend.RetryingGateway,
			records *repository.Records,
			clk clock.Clock,
			logger logx.Logger,
			set *metrics.Set,
			cfg *config.Config,
		) *offer.Machine {
			m := offer.NewMachine(gw, records, clk, logger, set.OfferTransitions, offer.Config{
				DecisionWindow:    cfg.Offer.DecisionWindow,
				CollapseThreshold: cfg.Offer.CollapseThreshold,
			})
			m.Subscribe(offer.NewTelemetry(gw, logger))
			return m
		},
		func(m *offer.Machine, tr *tracker.Tracker, ids *session.Provider, logger logx.Logger) *notify.Dispatcher {
			return notify.NewDispatcher(m, tr, ids, logger)
		},
	)
}

// requestTimeout bounds API requests; a probe may walk every location tier.
const requestTimeout = 90 * time.Second

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      requestTimeout + 10*time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newHandlers,
		newRouter,
		serverProvider,
		newPprofServer,
	)
}
