package domain

import "time"

// Position is a raw fix returned by the device platform.
type Position struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"timestamp"`
}

// Age returns how old the fix is at now.
func (p Position) Age(now time.Time) time.Duration {
	return now.Sub(p.CapturedAt)
}

// Origin tags how a LocationSample was obtained.
type Origin string

// List of sample origins
const (
	OriginCache      Origin = "cache"
	OriginStaleCache Origin = "stale-cache"
	OriginMovement   Origin = "movement"
)

// LiveOrigin returns the origin tag for a live fix at the given tier.
func LiveOrigin(t Tier) Origin {
	return Origin("live:" + string(t))
}

// LocationSample is a position ready to be reported. Samples are transient and
// never persisted.
type LocationSample struct {
	Position
	Source string
	Origin Origin
	Stale  bool
}
