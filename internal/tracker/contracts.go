package tracker

import (
	"context"
	"time"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Locator acquires and reports positions.
type Locator interface {
	Acquire(ctx context.Context, source string) (domain.LocationSample, error)
	Report(ctx context.Context, sample domain.LocationSample, id domain.CourierIdentity) error
	LastReportedAt() time.Time
}

// Identity provides the current courier.
type Identity interface {
	Current(ctx context.Context) (domain.CourierIdentity, error)
}

// Sink receives free-form diagnostic lines.
type Sink interface {
	SendLog(ctx context.Context, text string) error
}
