//go:generate mockgen -source=contracts.go -destination=session_mocks_test.go -package=session_test

package session

import (
	"context"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Store holds the local courier, token and order records.
type Store interface {
	Courier(ctx context.Context) (*domain.Courier, error)
	SaveCourier(ctx context.Context, c domain.Courier) error
	SaveToken(ctx context.Context, token string) error
	Order(ctx context.Context) (*domain.OrderOffer, error)
	Clear(ctx context.Context) error
}

// Backend is the subset of backend calls the session needs.
type Backend interface {
	GetCourier(ctx context.Context) (*domain.Courier, error)
	SetOnline(ctx context.Context, courierID string, online bool) (bool, error)
}
