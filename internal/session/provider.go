package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Provider exposes the logged-in courier to the background subsystems.
type Provider struct {
	store   Store
	backend Backend
	logger  logx.Logger
}

// NewProvider creates a Provider.
func NewProvider(store Store, backend Backend, logger logx.Logger) *Provider {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Provider{store: store, backend: backend, logger: logger.With(logx.Component("session"))}
}

// Current returns the stored identity; an empty identity means logged out.
func (p *Provider) Current(ctx context.Context) (domain.CourierIdentity, error) {
	c, err := p.store.Courier(ctx)
	if err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: load courier: %w", err)
	}
	return c.Identity(), nil
}

// Refresh fetches the courier from the backend and stores it.
func (p *Provider) Refresh(ctx context.Context) (domain.CourierIdentity, error) {
	c, err := p.backend.GetCourier(ctx)
	if err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: fetch courier: %w", err)
	}
	if err := p.store.SaveCourier(ctx, *c); err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: save courier: %w", err)
	}
	p.logger.Info("courier refreshed", logx.String("courier_id", c.ID), logx.Bool("online", c.Online))
	return c.Identity(), nil
}

// Ensure returns the stored identity, fetching it from the backend when none
// is stored yet.
func (p *Provider) Ensure(ctx context.Context) (domain.CourierIdentity, error) {
	id, err := p.Current(ctx)
	if err != nil {
		return id, err
	}
	if id.Present() {
		return id, nil
	}
	return p.Refresh(ctx)
}

// SetOnline toggles the online flag on the backend and, once applied, locally.
func (p *Provider) SetOnline(ctx context.Context, online bool) (domain.CourierIdentity, error) {
	c, err := p.store.Courier(ctx)
	if err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: load courier: %w", err)
	}
	if c == nil || !c.Identity().Present() {
		return domain.CourierIdentity{}, fmt.Errorf("session: %w: no courier logged in", apperr.ErrNotFound)
	}

	ok, err := p.backend.SetOnline(ctx, c.ID, online)
	if err != nil {
		return c.Identity(), fmt.Errorf("session: set online: %w", err)
	}
	if !ok {
		return c.Identity(), fmt.Errorf("session: %w: backend rejected online=%t", apperr.ErrConflict, online)
	}

	c.Online = online
	if err := p.store.SaveCourier(ctx, *c); err != nil {
		return c.Identity(), fmt.Errorf("session: save courier: %w", err)
	}
	p.logger.Info("online status changed", logx.String("courier_id", c.ID), logx.Bool("online", online))
	return c.Identity(), nil
}

// Login stores the bearer token handed over by the device shell after the
// courier signed in. The courier record is stored as given, or fetched from
// the backend with the new token when c is nil.
func (p *Provider) Login(ctx context.Context, token string, c *domain.Courier) (domain.CourierIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.CourierIdentity{}, fmt.Errorf("session: %w: token is empty", apperr.ErrInvalid)
	}
	if c != nil && !c.Identity().Present() {
		return domain.CourierIdentity{}, fmt.Errorf("session: %w: courier id is empty", apperr.ErrInvalid)
	}
	if err := p.store.SaveToken(ctx, token); err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: save token: %w", err)
	}
	if c == nil {
		return p.Refresh(ctx)
	}
	if err := p.store.SaveCourier(ctx, *c); err != nil {
		return domain.CourierIdentity{}, fmt.Errorf("session: save courier: %w", err)
	}
	p.logger.Info("logged in", logx.String("courier_id", c.ID), logx.Bool("online", c.Online))
	return c.Identity(), nil
}

// Order returns the accepted order kept for the order status screen.
func (p *Provider) Order(ctx context.Context) (domain.OrderOffer, error) {
	o, err := p.store.Order(ctx)
	if err != nil {
		return domain.OrderOffer{}, fmt.Errorf("session: load order: %w", err)
	}
	if o == nil {
		return domain.OrderOffer{}, fmt.Errorf("session: %w: no accepted order", apperr.ErrNotFound)
	}
	return *o, nil
}

// Logout removes every local record.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	p.logger.Info("logged out")
	return nil
}
