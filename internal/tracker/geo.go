package tracker

import (
	"math"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

const earthRadiusMeters = 6371000.0

// distance returns the great-circle distance between a and b in meters.
func distance(a, b domain.Position) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
