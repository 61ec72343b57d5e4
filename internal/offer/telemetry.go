package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

const telemetryTimeout = 10 * time.Second

// Sink receives free-form diagnostic lines.
type Sink interface {
	SendLog(ctx context.Context, text string) error
}

// NewTelemetry returns a subscriber that logs every transition and sends the
// ones ending an offer (accepted, declined, timed out) to sink. Sending runs
// in the background, so the subscriber never blocks the machine.
func NewTelemetry(sink Sink, logger logx.Logger) func(Transition) {
	if logger == nil {
		logger = logx.Nop()
	}
	logger = logger.With(logx.Component("offer_telemetry"))

	return func(tr Transition) {
		orderID := ""
		if tr.Offer != nil {
			orderID = tr.Offer.OrderID
		}
		logger.Info("offer transition",
			logx.String("from", string(tr.From)),
			logx.String("to", string(tr.To)),
			logx.String("order_id", orderID),
			logx.String("presentation_id", tr.PresentationID),
		)
		if sink == nil || !tr.To.Terminal() {
			return
		}

		text := fmt.Sprintf("[%s] order %s: %s -> %s (presentation %s)",
			tr.At.UTC().Format(time.RFC3339), orderID, tr.From, tr.To, tr.PresentationID)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
			defer cancel()
			if err := sink.SendLog(ctx, text); err != nil {
				logger.Warn("offer telemetry not delivered", logx.Err(err))
			}
		}()
	}
}
