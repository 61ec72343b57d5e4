package domain

import "encoding/json"

// Products holds bottle quantities per size class.
type Products struct {
	B12 int `json:"b12" validate:"gte=0"`
	B19 int `json:"b19" validate:"gte=0"`
}

// OrderOffer is an order proposed to the courier.
type OrderOffer struct {
	OrderID string   `json:"orderId" validate:"required"`
	Income  float64  `json:"income" validate:"gte=0"`
	Sum     float64  `json:"sum,omitempty" validate:"gte=0"`
	Pickup  string   `json:"aquaMarketAddress,omitempty"`
	Dropoff string   `json:"clientAddress,omitempty"`
	Product Products `json:"products"`

	// Raw is the order exactly as received; acceptance echoes it back.
	Raw json.RawMessage `json:"-"`
}

// Payload returns the JSON to send back to the backend for this order.
func (o OrderOffer) Payload() (json.RawMessage, error) {
	if len(o.Raw) > 0 {
		return o.Raw, nil
	}
	return json.Marshal(o)
}
