package notify

import (
	"context"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Offers receives new order offers.
type Offers interface {
	Present(o domain.OrderOffer) error
}

// Prober runs an on-demand location report.
type Prober interface {
	Trigger(ctx context.Context, source string) error
}

// Identity makes sure a courier identity is loaded.
type Identity interface {
	Ensure(ctx context.Context) (domain.CourierIdentity, error)
}
