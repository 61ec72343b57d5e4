//go:generate mockgen -source=contracts.go -destination=offer_mocks_test.go -package=offer_test

package offer

import (
	"context"
	"encoding/json"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Acceptor asks the backend to assign an order to the courier.
type Acceptor interface {
	AcceptOrder(ctx context.Context, order json.RawMessage) (bool, error)
}

// OrderStore persists the accepted order.
type OrderStore interface {
	SaveOrder(ctx context.Context, o domain.OrderOffer) error
}
