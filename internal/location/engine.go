package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/gateway/backend"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Report results.
const (
	ResultDelivered = "delivered"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Config tunes the acquisition cascade.
type Config struct {
	// Freshness is the maximum age of a cached position on the cheap path.
	Freshness time.Duration
	// MaxCachedAccuracy is the coarsest accuracy (meters) accepted from cache.
	MaxCachedAccuracy float64
	// TierTimeout bounds each live tier.
	TierTimeout time.Duration
	// EscalateAfter consecutive unavailable results trigger a diagnostic report.
	EscalateAfter int
}

// Metrics are the engine's counters. Nil vectors are skipped.
type Metrics struct {
	Acquisitions *prometheus.CounterVec
	Reports      *prometheus.CounterVec
}

// Engine acquires device positions and reports them to the backend.
type Engine struct {
	platform Platform
	reporter Reporter
	sink     Sink
	clk      clock.Clock
	logger   logx.Logger
	cfg      Config
	metrics  Metrics
	newSeq   func() string

	lastReported atomic.Int64
	unavailable  atomic.Int32
}

// NewEngine creates an Engine.
func NewEngine(platform Platform, reporter Reporter, sink Sink, clk clock.Clock, logger logx.Logger, m Metrics, cfg Config) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Engine{
		platform: platform,
		reporter: reporter,
		sink:     sink,
		clk:      clk,
		logger:   logger.With(logx.Component("location")),
		cfg:      cfg,
		metrics:  m,
		newSeq:   uuid.NewString,
	}
}

// Acquire runs the acquisition cascade. It returns a sample or one of
// apperr.ErrServicesDisabled, apperr.ErrPermissionDenied, apperr.ErrLocationUnavailable.
func (e *Engine) Acquire(ctx context.Context, source string) (domain.LocationSample, error) {
	enabled, err := e.platform.ServicesEnabled(ctx)
	if err != nil || !enabled {
		e.countAcquisition(source, "services_disabled")
		e.diag(ctx, source, "location services disabled")
		if err != nil {
			return domain.LocationSample{}, fmt.Errorf("%w: %w", apperr.ErrServicesDisabled, err)
		}
		return domain.LocationSample{}, apperr.ErrServicesDisabled
	}

	perm, err := e.platform.ForegroundPermission(ctx)
	if err != nil || perm != domain.PermissionGranted {
		e.countAcquisition(source, "permission_denied")
		e.diag(ctx, source, "no location permission")
		if err != nil {
			return domain.LocationSample{}, fmt.Errorf("%w: %w", apperr.ErrPermissionDenied, err)
		}
		return domain.LocationSample{}, apperr.ErrPermissionDenied
	}

	last, err := e.platform.LastKnown(ctx)
	if err != nil {
		e.logger.Warn("last known position unavailable", logx.String("source", source), logx.Err(err))
		last = nil
	}
	if last != nil && e.fresh(*last) {
		e.logger.Debug("using cached position", logx.String("source", source), logx.Duration("age", last.Age(e.clk.Now())))
		return e.succeed(source, domain.LocationSample{Position: *last, Source: source, Origin: domain.OriginCache}), nil
	}

	for _, tier := range domain.Tiers {
		if ctx.Err() != nil {
			break
		}
		pos, err := e.current(ctx, tier)
		if err == nil {
			return e.succeed(source, domain.LocationSample{Position: pos, Source: source, Origin: domain.LiveOrigin(tier)}), nil
		}
		e.logger.Debug("live tier failed", logx.String("source", source), logx.String("tier", string(tier)), logx.Err(err))
	}

	if err := ctx.Err(); err != nil {
		e.countAcquisition(source, "unavailable")
		return domain.LocationSample{}, fmt.Errorf("%w: %w", apperr.ErrLocationUnavailable, err)
	}

	if last != nil {
		age := max(last.Age(e.clk.Now()), 0)
		e.logger.Warn("using stale position", logx.String("source", source), logx.Duration("age", age))
		e.diag(ctx, source, fmt.Sprintf("using stale position (%d min)", int(math.Round(age.Minutes()))))
		return e.succeed(source, domain.LocationSample{Position: *last, Source: source, Origin: domain.OriginStaleCache, Stale: true}), nil
	}

	e.countAcquisition(source, "unavailable")
	e.logger.Error("all location methods unavailable", logx.String("source", source))
	e.diag(ctx, source, "all location methods unavailable")
	e.escalate(ctx)
	return domain.LocationSample{}, apperr.ErrLocationUnavailable
}

// Report delivers sample for the courier. Off-duty couriers are skipped
// without any network call. Transport errors are wrapped in apperr.ErrReportFailed.
func (e *Engine) Report(ctx context.Context, sample domain.LocationSample, id domain.CourierIdentity) error {
	if !id.OnDuty() {
		e.countReport(ResultSkipped)
		e.logger.Debug("report skipped", logx.String("source", sample.Source),
			logx.Bool("has_courier", id.Present()), logx.Bool("online", id.Online))
		return nil
	}

	err := e.reporter.UpdateLocation(ctx, backend.LocationUpdate{
		CourierID: id.CourierID,
		Lat:       sample.Lat,
		Lon:       sample.Lon,
		Accuracy:  sample.Accuracy,
		Timestamp: sample.CapturedAt,
		Source:    sample.Source,
		Seq:       e.newSeq(),
	})
	if err != nil {
		e.countReport(ResultFailed)
		e.logger.Warn("location report failed", logx.String("source", sample.Source), logx.Err(err))
		e.diag(ctx, sample.Source, "send error: "+err.Error())
		return fmt.Errorf("%w: %w", apperr.ErrReportFailed, err)
	}

	e.lastReported.Store(e.clk.Now().UnixNano())
	e.countReport(ResultDelivered)
	e.logger.Info("location reported",
		logx.String("source", sample.Source),
		logx.String("origin", string(sample.Origin)),
		logx.Float64("accuracy", sample.Accuracy),
	)
	e.diag(ctx, sample.Source, fmt.Sprintf("location sent (%.6f, %.6f), accuracy: %.0fm, origin: %s",
		sample.Lat, sample.Lon, sample.Accuracy, sample.Origin))
	return nil
}

// LastReportedAt returns the time of the last delivered report, or zero.
func (e *Engine) LastReportedAt() time.Time {
	n := e.lastReported.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// fresh reports whether a cached fix may stand in for a live one. A fix
// dated in the future comes from a skewed device clock and is never fresh.
func (e *Engine) fresh(p domain.Position) bool {
	age := p.Age(e.clk.Now())
	return age >= 0 && age < e.cfg.Freshness && p.Accuracy <= e.cfg.MaxCachedAccuracy
}

func (e *Engine) current(ctx context.Context, tier domain.Tier) (domain.Position, error) {
	if e.cfg.TierTimeout <= 0 {
		return e.platform.Current(ctx, tier)
	}
	tctx, cancel := context.WithTimeout(ctx, e.cfg.TierTimeout)
	defer cancel()
	pos, err := e.platform.Current(tctx, tier)
	if err == nil && tctx.Err() != nil && ctx.Err() == nil {
		// платформа вернула фикс уже после таймаута тира
		return domain.Position{}, tctx.Err()
	}
	return pos, err
}

func (e *Engine) succeed(source string, s domain.LocationSample) domain.LocationSample {
	e.unavailable.Store(0)
	e.countAcquisition(source, string(s.Origin))
	return s
}

func (e *Engine) escalate(ctx context.Context) {
	n := e.unavailable.Add(1)
	if e.cfg.EscalateAfter <= 0 || int(n)%e.cfg.EscalateAfter != 0 {
		return
	}
	e.logger.Warn("location unavailable repeatedly, running diagnostics", logx.Int("consecutive", int(n)))
	if _, err := e.Diagnose(ctx); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Warn("diagnostics failed", logx.Err(err))
	}
}

func (e *Engine) countAcquisition(source, result string) {
	if e.metrics.Acquisitions != nil {
		e.metrics.Acquisitions.WithLabelValues(source, result).Inc()
	}
}

func (e *Engine) countReport(result string) {
	if e.metrics.Reports != nil {
		e.metrics.Reports.WithLabelValues(result).Inc()
	}
}

// diag sends a best-effort line to the diagnostic sink.
func (e *Engine) diag(ctx context.Context, source, msg string) {
	if e.sink == nil {
		return
	}
	text := fmt.Sprintf("[%s] %s: %s", e.clk.Now().UTC().Format(time.RFC3339), source, msg)
	if err := e.sink.SendLog(ctx, text); err != nil {
		e.logger.Warn("diagnostic log not delivered", logx.Err(err))
	}
}
