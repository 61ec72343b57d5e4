package device

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Fixed is a platform that always reports the same position. Used by the
// headless worker and in demos where no device shell is attached.
type Fixed struct {
	lat, lon float64
	accuracy float64
	clk      clock.Clock
}

// ParseFixed parses "lat,lon" into a Fixed platform.
func ParseFixed(s string, clk clock.Clock) (*Fixed, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("fixed position %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || !finite(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("fixed position %q: bad latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || !finite(lon) || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("fixed position %q: bad longitude", s)
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Fixed{lat: lat, lon: lon, accuracy: 5, clk: clk}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ServicesEnabled is always true.
func (f *Fixed) ServicesEnabled(context.Context) (bool, error) { return true, nil }

// ForegroundPermission is always granted.
func (f *Fixed) ForegroundPermission(context.Context) (domain.Permission, error) {
	return domain.PermissionGranted, nil
}

// BackgroundPermission is always granted.
func (f *Fixed) BackgroundPermission(context.Context) (domain.Permission, error) {
	return domain.PermissionGranted, nil
}

// LastKnown has no cache, so every acquisition goes live.
func (f *Fixed) LastKnown(context.Context) (*domain.Position, error) { return nil, nil }

// Current returns the fixed position stamped now.
func (f *Fixed) Current(ctx context.Context, _ domain.Tier) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, err
	}
	return domain.Position{Lat: f.lat, Lon: f.lon, Accuracy: f.accuracy, CapturedAt: f.clk.Now()}, nil
}
