package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Trigger sources.
const (
	SourcePeriodic  = "periodic"
	SourceHeartbeat = "heartbeat"
	SourceMovement  = "movement"
	SourceProbe     = "probe"
)

// Config sets the tracker cadence.
type Config struct {
	Interval       time.Duration
	WatchdogWindow time.Duration
	WatchdogCheck  time.Duration
	// MinDistance is the movement (meters) needed before a movement report.
	MinDistance float64
}

// Tracker is the single scheduler driving location reports: a periodic job,
// a watchdog that forces a report after a silent window, movement callbacks
// and on-demand probes.
type Tracker struct {
	loc    Locator
	ids    Identity
	sink   Sink
	clk    clock.Clock
	logger logx.Logger
	cfg    Config

	mu        sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
	startedAt time.Time
	lastMove  *domain.Position
}

// New creates a Tracker.
func New(loc Locator, ids Identity, sink Sink, clk clock.Clock, logger logx.Logger, cfg Config) *Tracker {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Tracker{
		loc:    loc,
		ids:    ids,
		sink:   sink,
		clk:    clk,
		logger: logger.With(logx.Component("tracker")),
		cfg:    cfg,
	}
}

// Start schedules the periodic and watchdog jobs. Jobs run until Stop or
// until ctx is done.
func (t *Tracker) Start(ctx context.Context) error {
	if t.cfg.Interval <= 0 || t.cfg.WatchdogCheck <= 0 || t.cfg.WatchdogWindow <= 0 {
		return fmt.Errorf("tracker: invalid cadence interval=%s check=%s window=%s",
			t.cfg.Interval, t.cfg.WatchdogCheck, t.cfg.WatchdogWindow)
	}

	t.mu.Lock()
	if t.cron != nil {
		t.mu.Unlock()
		return errors.New("tracker: already started")
	}

	jobCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLogger(cronLogger{l: t.logger}),
		cron.WithChain(cron.Recover(cronLogger{l: t.logger}), cron.SkipIfStillRunning(cronLogger{l: t.logger})))

	if _, err := c.AddFunc(every(t.cfg.Interval), func() {
		if err := t.Trigger(jobCtx, SourcePeriodic); err != nil {
			t.logger.Warn("periodic report failed", logx.Err(err))
		}
	}); err != nil {
		t.mu.Unlock()
		cancel()
		return fmt.Errorf("tracker: schedule periodic: %w", err)
	}
	if _, err := c.AddFunc(every(t.cfg.WatchdogCheck), func() {
		if err := t.CheckWatchdog(jobCtx); err != nil {
			t.logger.Warn("watchdog report failed", logx.Err(err))
		}
	}); err != nil {
		t.mu.Unlock()
		cancel()
		return fmt.Errorf("tracker: schedule watchdog: %w", err)
	}

	t.cron = c
	t.cancel = cancel
	t.startedAt = t.clk.Now()
	c.Start()
	t.mu.Unlock()

	t.logger.Info("tracker started",
		logx.Duration("interval", t.cfg.Interval),
		logx.Duration("watchdog_window", t.cfg.WatchdogWindow),
	)
	t.announce(jobCtx)
	return nil
}

// Stop cancels in-flight jobs and waits for them to return.
func (t *Tracker) Stop() {
	t.mu.Lock()
	c, cancel := t.cron, t.cancel
	t.cron, t.cancel = nil, nil
	t.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	t.logger.Info("tracker stopped")
}

// Trigger acquires and reports a position for the current courier. It does
// nothing while the courier is absent or offline.
func (t *Tracker) Trigger(ctx context.Context, source string) error {
	id, err := t.ids.Current(ctx)
	if err != nil {
		return fmt.Errorf("tracker: identity: %w", err)
	}
	if !id.OnDuty() {
		t.logger.Debug("trigger skipped, courier off duty", logx.String("source", source))
		return nil
	}
	sample, err := t.loc.Acquire(ctx, source)
	if err != nil {
		return err
	}
	return t.loc.Report(ctx, sample, id)
}

// OnMovement reports pos when the courier moved at least MinDistance since
// the last movement report.
func (t *Tracker) OnMovement(ctx context.Context, pos domain.Position) error {
	t.mu.Lock()
	prev := t.lastMove
	t.mu.Unlock()

	if prev != nil && distance(*prev, pos) < t.cfg.MinDistance {
		return nil
	}

	id, err := t.ids.Current(ctx)
	if err != nil {
		return fmt.Errorf("tracker: identity: %w", err)
	}
	if !id.OnDuty() {
		return nil
	}
	if pos.CapturedAt.IsZero() {
		pos.CapturedAt = t.clk.Now()
	}
	sample := domain.LocationSample{Position: pos, Source: SourceMovement, Origin: domain.OriginMovement}
	if err := t.loc.Report(ctx, sample, id); err != nil {
		return err
	}

	t.mu.Lock()
	t.lastMove = &pos
	t.mu.Unlock()
	return nil
}

// CheckWatchdog forces a report when nothing was delivered within the
// watchdog window, and sends a heartbeat status line either way.
func (t *Tracker) CheckWatchdog(ctx context.Context) error {
	id, err := t.ids.Current(ctx)
	if err != nil {
		return fmt.Errorf("tracker: identity: %w", err)
	}
	if !id.OnDuty() {
		return nil
	}

	silence := t.Silence()
	t.status(ctx, fmt.Sprintf("heartbeat: %d s since last report", int(silence.Seconds())))
	if silence <= t.cfg.WatchdogWindow {
		return nil
	}
	t.logger.Warn("no report within watchdog window, forcing", logx.Duration("silence", silence))
	return t.Trigger(ctx, SourceHeartbeat)
}

// Silence is the time since the last delivered report, or since Start when
// nothing was delivered yet.
func (t *Tracker) Silence() time.Duration {
	base := t.loc.LastReportedAt()
	if base.IsZero() {
		t.mu.Lock()
		base = t.startedAt
		t.mu.Unlock()
	}
	if base.IsZero() {
		return 0
	}
	return t.clk.Now().Sub(base)
}

func (t *Tracker) announce(ctx context.Context) {
	id, err := t.ids.Current(ctx)
	if err != nil || !id.Present() {
		return
	}
	t.status(ctx, fmt.Sprintf("agent active: courier %s, online %t", id.CourierID, id.Online))
}

func (t *Tracker) status(ctx context.Context, msg string) {
	if t.sink == nil {
		return
	}
	text := fmt.Sprintf("[%s] %s", t.clk.Now().UTC().Format(time.RFC3339), msg)
	if err := t.sink.SendLog(ctx, text); err != nil {
		t.logger.Warn("status log not delivered", logx.Err(err))
	}
}

func every(d time.Duration) string {
	return "@every " + d.String()
}
