package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

type gateway interface {
	UpdateLocation(context.Context, LocationUpdate) error
	AcceptOrder(context.Context, json.RawMessage) (bool, error)
	SendLog(context.Context, string) error
	SetOnline(context.Context, string, bool) (bool, error)
	GetCourier(context.Context) (*domain.Courier, error)
}

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingGateway
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries idempotent reads. Location reports, acceptance and
// diagnostic logs go straight through: their callers own the retry decision.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway конструктор который проверяет, что next не nil и возвращает RetryingGateway
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// UpdateLocation passes through.
func (g *RetryingGateway) UpdateLocation(ctx context.Context, u LocationUpdate) error {
	return g.next.UpdateLocation(ctx, u)
}

// AcceptOrder passes through.
func (g *RetryingGateway) AcceptOrder(ctx context.Context, order json.RawMessage) (bool, error) {
	return g.next.AcceptOrder(ctx, order)
}

// SendLog passes through.
func (g *RetryingGateway) SendLog(ctx context.Context, text string) error {
	return g.next.SendLog(ctx, text)
}

// SetOnline passes through.
func (g *RetryingGateway) SetOnline(ctx context.Context, courierID string, online bool) (bool, error) {
	return g.next.SetOnline(ctx, courierID, online)
}

// GetCourier retries transient failures with capped exponential backoff.
func (g *RetryingGateway) GetCourier(ctx context.Context) (*domain.Courier, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		c, err := g.next.GetCourier(ctx)
		if err == nil {
			return c, nil
		}
		lastErr = err
		// проверяем условия повтора
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("backend gateway retry",
			logx.String("method", "GetCourier"),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable определяет, является ли ошибка повторяемой
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// backoff вычисляет задержку повтора
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
