package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// SourcePush labels location reports requested by a getLocation notification.
const SourcePush = "push"

// Dispatcher routes notifications by title. Unknown titles are ignored.
type Dispatcher struct {
	offers   Offers
	prober   Prober
	ids      Identity
	validate *validator.Validate
	logger   logx.Logger
	factory  *handlerFactory
}

// NewDispatcher creates a Dispatcher. offers may be nil when the process does
// not present offers (headless worker); such notifications are then dropped.
func NewDispatcher(offers Offers, prober Prober, ids Identity, logger logx.Logger) *Dispatcher {
	if logger == nil {
		logger = logx.Nop()
	}
	d := &Dispatcher{
		offers:   offers,
		prober:   prober,
		ids:      ids,
		validate: validator.New(),
		logger:   logger.With(logx.Component("notify")),
	}
	d.factory = newHandlerFactory(d.onNewOrder, d.onGetLocation)
	return d
}

// Handle processes a single notification.
func (d *Dispatcher) Handle(ctx context.Context, n domain.Notification) error {
	fn, ok := d.factory.get(n.Title)
	if !ok {
		d.logger.Debug("notification ignored", logx.String("title", n.Title))
		return nil
	}
	if d.ids != nil {
		if _, err := d.ids.Ensure(ctx); err != nil {
			d.logger.Warn("courier identity unavailable", logx.String("title", n.Title), logx.Err(err))
		}
	}
	return fn(ctx, n)
}

func (d *Dispatcher) onNewOrder(_ context.Context, n domain.Notification) error {
	if d.offers == nil {
		d.logger.Debug("offer dropped, offers disabled")
		return nil
	}
	o, err := d.decodeOffer(n.Data.Order)
	if err != nil {
		return err
	}
	return d.offers.Present(o)
}

func (d *Dispatcher) onGetLocation(ctx context.Context, _ domain.Notification) error {
	return d.prober.Trigger(ctx, SourcePush)
}

func (d *Dispatcher) decodeOffer(raw json.RawMessage) (domain.OrderOffer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.OrderOffer{}, fmt.Errorf("%w: notification has no order", apperr.ErrInvalid)
	}
	var o domain.OrderOffer
	if err := json.Unmarshal(raw, &o); err != nil {
		return domain.OrderOffer{}, fmt.Errorf("%w: order: %w", apperr.ErrInvalid, err)
	}
	if err := d.validate.Struct(o); err != nil {
		return domain.OrderOffer{}, fmt.Errorf("%w: order: %w", apperr.ErrInvalid, err)
	}
	o.Raw = append(json.RawMessage(nil), raw...)
	return o, nil
}
