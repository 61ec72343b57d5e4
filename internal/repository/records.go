package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Record keys.
const (
	KeyCourier = "courier_data"
	KeyToken   = "token_data"
	KeyOrder   = "order_data"
)

type tokenRecord struct {
	Token string `json:"token"`
}

// Records is the typed view over KV used by the session and offer layers.
type Records struct{ kv KV }

// NewRecords wraps kv.
func NewRecords(kv KV) *Records { return &Records{kv: kv} }

// Courier returns the stored courier record or nil.
func (r *Records) Courier(ctx context.Context) (*domain.Courier, error) {
	var c domain.Courier
	ok, err := r.getJSON(ctx, KeyCourier, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// SaveCourier stores the courier record.
func (r *Records) SaveCourier(ctx context.Context, c domain.Courier) error {
	return r.setJSON(ctx, KeyCourier, c)
}

// Token returns the stored bearer token or "".
func (r *Records) Token(ctx context.Context) (string, error) {
	var t tokenRecord
	if _, err := r.getJSON(ctx, KeyToken, &t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// SaveToken stores the bearer token.
func (r *Records) SaveToken(ctx context.Context, token string) error {
	return r.setJSON(ctx, KeyToken, tokenRecord{Token: token})
}

// Order returns the last accepted order or nil.
func (r *Records) Order(ctx context.Context) (*domain.OrderOffer, error) {
	raw, err := r.kv.Get(ctx, KeyOrder)
	if err != nil || raw == nil {
		return nil, err
	}
	var o domain.OrderOffer
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyOrder, err)
	}
	o.Raw = raw
	return &o, nil
}

// SaveOrder stores the accepted order as received from the backend.
func (r *Records) SaveOrder(ctx context.Context, o domain.OrderOffer) error {
	raw, err := o.Payload()
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyOrder, err)
	}
	return r.kv.Set(ctx, KeyOrder, raw)
}

// Clear removes every record (logout).
func (r *Records) Clear(ctx context.Context) error {
	var errs []error
	for _, k := range []string{KeyCourier, KeyToken, KeyOrder} {
		if err := r.kv.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Records) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Records) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Set(ctx, key, raw)
}
