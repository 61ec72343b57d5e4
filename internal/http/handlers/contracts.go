package handlers

import (
	"context"
	"time"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/location"
	"github.com/EdilKulzhabay/courier/internal/offer"
)

type offerMachine interface {
	State() offer.Snapshot
	Accept(ctx context.Context) error
	Decline() error
	Acknowledge() error
	Panel() *offer.Panel
}

type notificationDispatcher interface {
	Handle(ctx context.Context, n domain.Notification) error
}

type locationTracker interface {
	Trigger(ctx context.Context, source string) error
	OnMovement(ctx context.Context, pos domain.Position) error
	Silence() time.Duration
}

type locationEngine interface {
	Diagnose(ctx context.Context) (location.Diagnostics, error)
	LastReportedAt() time.Time
}

type sessionService interface {
	Current(ctx context.Context) (domain.CourierIdentity, error)
	Login(ctx context.Context, token string, c *domain.Courier) (domain.CourierIdentity, error)
	SetOnline(ctx context.Context, online bool) (domain.CourierIdentity, error)
	Order(ctx context.Context) (domain.OrderOffer, error)
	Logout(ctx context.Context) error
}
