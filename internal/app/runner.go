package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/dig"

	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/tracker"
	"github.com/EdilKulzhabay/courier/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the agent: HTTP API, tracker, notification consumer and the
// optional pprof server.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the agent using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := loggerFrom(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

func loggerFrom(container *dig.Container) logx.Logger {
	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type agentIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Server   *http.Server
	Pprof    *http.Server `name:"pprof_server" optional:"true"`
	Tracker  *tracker.Tracker
	Consumer *kafka.Consumer
	Closer   storeCloser
}

func run(container *dig.Container) error {
	return container.Invoke(agentRun)
}

func agentRun(in agentIn) error {
	ctx, cancel := context.WithCancel(in.Ctx)
	defer cancel()

	errCh := make(chan error, 2)
	startServer(in.Server, in.Logger, "api", errCh)
	if in.Pprof != nil {
		startServer(in.Pprof, in.Logger, "pprof", errCh)
	}
	if err := in.Tracker.Start(ctx); err != nil {
		shutdown(in, 0)
		return err
	}
	consumerDone := startConsumer(ctx, in.Consumer, in.Logger)

	in.Logger.Info("courier-agent started")

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case runErr = <-errCh:
	}
	in.Logger.Info("shutting down courier-agent...")
	cancel()
	<-consumerDone
	shutdown(in, shutdownTimeout)
	return runErr
}

func startServer(srv *http.Server, logger logx.Logger, name string, errCh chan<- error) {
	go func() {
		logger.Info("http server listening", logx.String("server", name), logx.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func startConsumer(ctx context.Context, c *kafka.Consumer, logger logx.Logger) <-chan struct{} {
	done := make(chan struct{})
	if c == nil {
		logger.Info("kafka disabled, notifications arrive over http only")
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("kafka consumer stopped", logx.Err(err))
		}
	}()
	return done
}

func shutdown(in agentIn, timeout time.Duration) {
	gracefulShutdown(in.Server, in.Logger, timeout)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, in.Logger, timeout)
	}
	in.Tracker.Stop()
	closeResources(in.Logger, in.Consumer, in.Closer)
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
		if err := srv.Close(); err != nil {
			logger.Warn("server close error", logx.Err(err))
		}
	}
}

func closeResources(logger logx.Logger, consumer *kafka.Consumer, closer storeCloser) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	if closer != nil {
		if err := closer(); err != nil {
			logger.Error("store close error", logx.Err(err))
		}
	}
}
