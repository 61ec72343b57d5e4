package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Bridge talks to the device shell, which exposes the OS location APIs over
// loopback HTTP.
type Bridge struct {
	baseURL string
	http    *http.Client
}

// NewBridge creates a bridge client. Per-call deadlines come from ctx.
func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type servicesDTO struct {
	Enabled bool `json:"enabled"`
}

type permissionDTO struct {
	Status domain.Permission `json:"status"`
}

type positionDTO struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

func (p positionDTO) toDomain() domain.Position {
	return domain.Position{Lat: p.Lat, Lon: p.Lon, Accuracy: p.Accuracy, CapturedAt: p.Timestamp}
}

// ServicesEnabled reports whether OS location services are on.
func (b *Bridge) ServicesEnabled(ctx context.Context) (bool, error) {
	var out servicesDTO
	if _, err := b.get(ctx, "/location/services", &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// ForegroundPermission returns the foreground location permission.
func (b *Bridge) ForegroundPermission(ctx context.Context) (domain.Permission, error) {
	return b.permission(ctx, "/location/permission")
}

// BackgroundPermission returns the background location permission.
func (b *Bridge) BackgroundPermission(ctx context.Context) (domain.Permission, error) {
	return b.permission(ctx, "/location/background-permission")
}

func (b *Bridge) permission(ctx context.Context, path string) (domain.Permission, error) {
	var out permissionDTO
	if _, err := b.get(ctx, path, &out); err != nil {
		return "", err
	}
	switch out.Status {
	case domain.PermissionGranted, domain.PermissionDenied:
		return out.Status, nil
	default:
		return domain.PermissionUndetermined, nil
	}
}

// LastKnown returns the OS cached position, or nil when there is none.
func (b *Bridge) LastKnown(ctx context.Context) (*domain.Position, error) {
	var out positionDTO
	found, err := b.get(ctx, "/location/last-known", &out)
	if err != nil || !found {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

// Current requests a live fix at the given accuracy tier.
func (b *Bridge) Current(ctx context.Context, tier domain.Tier) (domain.Position, error) {
	if !tier.Valid() {
		return domain.Position{}, fmt.Errorf("%w: tier %q", apperr.ErrInvalid, tier)
	}
	var out positionDTO
	found, err := b.get(ctx, "/location/current?accuracy="+url.QueryEscape(string(tier)), &out)
	if err != nil {
		return domain.Position{}, err
	}
	if !found {
		return domain.Position{}, fmt.Errorf("device bridge: no fix at tier %s", tier)
	}
	return out.toDomain(), nil
}

// get decodes a JSON body into out. A 204 reports found=false.
func (b *Bridge) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("device bridge GET %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("device bridge GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return false, fmt.Errorf("device bridge GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("device bridge GET %s: decode: %w", path, err)
	}
	return true, nil
}
