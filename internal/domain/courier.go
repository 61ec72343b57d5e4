package domain

import "strings"

// CourierIdentity is the read-only view of the logged-in courier used by the
// background subsystems.
type CourierIdentity struct {
	CourierID string
	Online    bool
}

// Present reports whether a courier is logged in.
func (c CourierIdentity) Present() bool {
	return strings.TrimSpace(c.CourierID) != ""
}

// OnDuty reports whether location may be shared for this courier.
func (c CourierIdentity) OnDuty() bool {
	return c.Present() && c.Online
}

// Courier is the courier record persisted by the session layer. Only the
// fields the agent relies on are modelled; the backend sends many more.
type Courier struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Online   bool   `json:"onTheLine"`
	Status   string `json:"status,omitempty"`
}

// Identity projects the stored record onto CourierIdentity.
func (c *Courier) Identity() CourierIdentity {
	if c == nil {
		return CourierIdentity{}
	}
	return CourierIdentity{CourierID: strings.TrimSpace(c.ID), Online: c.Online}
}
