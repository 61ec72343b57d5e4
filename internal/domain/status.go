package domain

type (
	// OfferState is the lifecycle state of an order offer.
	OfferState string
	// Permission is a device permission status.
	Permission string
	// Tier is an accuracy level of a live location request.
	Tier string
)

// List of offer states
const (
	OfferIdle     OfferState = "idle"
	OfferOffered  OfferState = "offered"
	OfferAccepted OfferState = "accepted"
	OfferDeclined OfferState = "declined"
	OfferTimedOut OfferState = "timed_out"
)

// List of permission statuses
const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// List of accuracy tiers, most precise first
const (
	TierHigh     Tier = "high"
	TierBalanced Tier = "balanced"
	TierLow      Tier = "low"
	TierLowest   Tier = "lowest"
)

// Tiers is the live acquisition cascade order.
var Tiers = [...]Tier{TierHigh, TierBalanced, TierLow, TierLowest}

// Terminal reports whether the state ends an offer.
func (s OfferState) Terminal() bool {
	return s == OfferAccepted || s == OfferDeclined || s == OfferTimedOut
}

// Valid checks if the Tier is valid
func (t Tier) Valid() bool {
	for _, v := range Tiers {
		if t == v {
			return true
		}
	}
	return false
}
