//go:generate mockgen -source=contracts.go -destination=location_mocks_test.go -package=location_test

package location

import (
	"context"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/gateway/backend"
)

// Platform is the device location API.
type Platform interface {
	ServicesEnabled(ctx context.Context) (bool, error)
	ForegroundPermission(ctx context.Context) (domain.Permission, error)
	BackgroundPermission(ctx context.Context) (domain.Permission, error)
	// LastKnown returns nil when the OS has no cached position.
	LastKnown(ctx context.Context) (*domain.Position, error)
	Current(ctx context.Context, tier domain.Tier) (domain.Position, error)
}

// Reporter delivers samples to the backend.
type Reporter interface {
	UpdateLocation(ctx context.Context, u backend.LocationUpdate) error
}

// Sink receives free-form diagnostic lines.
type Sink interface {
	SendLog(ctx context.Context, text string) error
}
