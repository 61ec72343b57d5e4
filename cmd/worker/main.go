// Command worker runs the location tracker and the push notification
// consumer without the device-facing HTTP API.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/EdilKulzhabay/courier/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.NewWorkerRunner().MustRun(app.MustBuildWorkerContainer(ctx))
}
