package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/tracker"
	"github.com/EdilKulzhabay/courier/internal/transport/kafka"
)

// WorkerRunner runs the headless worker: tracker plus notification consumer.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	logger logx.Logger,
	tr *tracker.Tracker,
	consumer *kafka.Consumer,
	closer storeCloser,
) error {
	if tr == nil {
		return fmt.Errorf("tracker is nil: worker container misconfigured")
	}
	defer closeResources(logger, consumer, closer)

	if err := tr.Start(ctx); err != nil {
		return err
	}
	defer tr.Stop()

	logger.Info("courier-agent worker started")
	if consumer == nil {
		logger.Info("kafka disabled, running tracker only")
		<-ctx.Done()
		return ctx.Err()
	}
	return consumer.Run(ctx)
}
