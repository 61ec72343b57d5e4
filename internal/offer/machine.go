package offer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Config tunes the machine.
type Config struct {
	DecisionWindow    time.Duration
	CollapseThreshold float64
}

// Snapshot is the externally visible machine state.
type Snapshot struct {
	State          domain.OfferState  `json:"state"`
	Offer          *domain.OrderOffer `json:"offer,omitempty"`
	PresentationID string             `json:"presentationId,omitempty"`
	Deadline       time.Time          `json:"deadline,omitempty"`
	Accepting      bool               `json:"accepting"`
	Collapsed      bool               `json:"collapsed"`
}

// Transition is delivered to subscribers on every state change.
type Transition struct {
	From           domain.OfferState
	To             domain.OfferState
	PresentationID string
	Offer          *domain.OrderOffer
	At             time.Time
}

// Machine drives one order offer at a time through
// Idle -> Offered -> {Accepted, Declined, TimedOut}, and Accepted -> Idle.
//
// Every transition bumps gen; a countdown callback carrying an older gen is
// ignored, so a timer can never act after its offer left Offered.
type Machine struct {
	acceptor    Acceptor
	store       OrderStore
	clk         clock.Clock
	logger      logx.Logger
	transitions *prometheus.CounterVec
	cfg         Config
	panel       *Panel

	mu        sync.Mutex
	state     domain.OfferState
	offer     *domain.OrderOffer
	id        string
	deadline  time.Time
	gen       uint64
	timer     clock.Timer
	accepting bool
	expired   bool
	// pending holds transitions not yet delivered, in order. Only the
	// goroutine that set flushing delivers them.
	pending  []Transition
	flushing bool

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(Transition)
}

// NewMachine creates an idle Machine. transitions may be nil.
func NewMachine(acceptor Acceptor, store OrderStore, clk clock.Clock, logger logx.Logger, transitions *prometheus.CounterVec, cfg Config) *Machine {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Machine{
		acceptor:    acceptor,
		store:       store,
		clk:         clk,
		logger:      logger.With(logx.Component("offer")),
		transitions: transitions,
		cfg:         cfg,
		panel:       NewPanel(cfg.CollapseThreshold),
		state:       domain.OfferIdle,
		subs:        map[int]func(Transition){},
	}
}

// Panel returns the presentational panel state.
func (m *Machine) Panel() *Panel { return m.panel }

// Subscribe registers fn for transitions and returns a function that removes it.
// Transitions reach subscribers in the order they happened. fn runs on a
// goroutine of the machine's caller and must not block.
func (m *Machine) Subscribe(fn func(Transition)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// State returns the current snapshot.
func (m *Machine) State() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:          m.state,
		PresentationID: m.id,
		Deadline:       m.deadline,
		Accepting:      m.accepting,
		Collapsed:      m.panel.Collapsed(),
	}
	if m.offer != nil {
		o := *m.offer
		s.Offer = &o
	}
	return s
}

// Present shows a new offer and starts the decision countdown. It fails with
// apperr.ErrConflict while another offer is pending or accepted.
func (m *Machine) Present(o domain.OrderOffer) error {
	if o.OrderID == "" {
		return fmt.Errorf("%w: order id is empty", apperr.ErrInvalid)
	}

	m.mu.Lock()
	if m.state == domain.OfferOffered || m.state == domain.OfferAccepted {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: offer already %s", apperr.ErrConflict, state)
	}
	from := m.state
	m.state = domain.OfferOffered
	m.offer = &o
	m.id = uuid.NewString()
	m.gen++
	gen := m.gen
	m.deadline = m.clk.Now().Add(m.cfg.DecisionWindow)
	m.accepting = false
	m.expired = false
	m.timer = m.clk.AfterFunc(m.cfg.DecisionWindow, func() { m.expire(gen) })
	tr := m.transitionLocked(from)
	m.mu.Unlock()

	m.panel.Expand()
	m.logger.Info("offer presented", logx.String("order_id", o.OrderID), logx.String("presentation_id", tr.PresentationID))
	m.flush()
	return nil
}

// Accept asks the backend to confirm the pending offer. The machine moves to
// Accepted only on confirmation; otherwise it stays Offered and
// apperr.ErrAcceptanceNotConfirmed is returned. If the countdown elapsed
// while the call was in flight, an unconfirmed acceptance ends in TimedOut.
func (m *Machine) Accept(ctx context.Context) error {
	m.mu.Lock()
	if m.state != domain.OfferOffered {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: no pending offer (state %s)", apperr.ErrConflict, state)
	}
	if m.accepting {
		m.mu.Unlock()
		return fmt.Errorf("%w: acceptance already in progress", apperr.ErrConflict)
	}
	m.accepting = true
	gen := m.gen
	o := *m.offer
	m.mu.Unlock()

	confirmed, callErr := m.callAccept(ctx, o)

	m.mu.Lock()
	m.accepting = false
	if m.gen != gen || m.state != domain.OfferOffered {
		m.mu.Unlock()
		return fmt.Errorf("%w: offer changed during acceptance", apperr.ErrConflict)
	}

	if confirmed {
		m.stopTimerLocked()
		m.transitionTo(domain.OfferAccepted)
		m.mu.Unlock()

		m.logger.Info("offer accepted", logx.String("order_id", o.OrderID))
		m.flush()
		if err := m.store.SaveOrder(ctx, o); err != nil {
			m.logger.Error("accepted order not persisted", logx.String("order_id", o.OrderID), logx.Err(err))
		}
		return nil
	}

	notConfirmed := fmt.Errorf("%w: order %s", apperr.ErrAcceptanceNotConfirmed, o.OrderID)
	if callErr != nil {
		notConfirmed = fmt.Errorf("%w: %w", apperr.ErrAcceptanceNotConfirmed, callErr)
	}

	if m.expired {
		m.clearTo(domain.OfferTimedOut)
		m.mu.Unlock()
		m.logger.Info("offer timed out during acceptance", logx.String("order_id", o.OrderID))
		m.flush()
		return notConfirmed
	}
	m.mu.Unlock()

	m.logger.Warn("acceptance not confirmed", logx.String("order_id", o.OrderID), logx.Err(callErr))
	return notConfirmed
}

// Decline rejects the pending offer.
func (m *Machine) Decline() error {
	m.mu.Lock()
	if m.state != domain.OfferOffered {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: no pending offer (state %s)", apperr.ErrConflict, state)
	}
	if m.accepting {
		m.mu.Unlock()
		return fmt.Errorf("%w: acceptance in progress", apperr.ErrConflict)
	}
	tr := m.clearTo(domain.OfferDeclined)
	m.mu.Unlock()

	m.logger.Info("offer declined", logx.String("presentation_id", tr.PresentationID))
	m.flush()
	return nil
}

// Acknowledge hands an accepted order off to navigation and returns to Idle.
func (m *Machine) Acknowledge() error {
	m.mu.Lock()
	if m.state != domain.OfferAccepted {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: nothing to acknowledge (state %s)", apperr.ErrConflict, state)
	}
	m.clearTo(domain.OfferIdle)
	m.mu.Unlock()

	m.flush()
	return nil
}

func (m *Machine) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != domain.OfferOffered {
		m.mu.Unlock()
		return
	}
	if m.accepting {
		// решение за Accept: подтверждение победит таймаут
		m.expired = true
		m.mu.Unlock()
		return
	}
	tr := m.clearTo(domain.OfferTimedOut)
	m.mu.Unlock()

	m.logger.Info("offer timed out", logx.String("presentation_id", tr.PresentationID))
	m.flush()
}

func (m *Machine) callAccept(ctx context.Context, o domain.OrderOffer) (bool, error) {
	payload, err := o.Payload()
	if err != nil {
		return false, fmt.Errorf("encode order: %w", err)
	}
	return m.acceptor.AcceptOrder(ctx, payload)
}

// clearTo leaves the current offer for to. Caller holds mu.
func (m *Machine) clearTo(to domain.OfferState) Transition {
	m.stopTimerLocked()
	tr := m.transitionTo(to)
	m.offer = nil
	m.id = ""
	m.deadline = time.Time{}
	m.expired = false
	return tr
}

// transitionTo moves to state to and invalidates outstanding timers. Caller holds mu.
func (m *Machine) transitionTo(to domain.OfferState) Transition {
	from := m.state
	m.state = to
	m.gen++
	return m.transitionLocked(from)
}

// transitionLocked records the move from from to the current state and
// queues it for subscribers. Caller holds mu.
func (m *Machine) transitionLocked(from domain.OfferState) Transition {
	tr := Transition{From: from, To: m.state, PresentationID: m.id, At: m.clk.Now()}
	if m.offer != nil {
		o := *m.offer
		tr.Offer = &o
	}
	m.pending = append(m.pending, tr)
	return tr
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// flush delivers queued transitions. A call made while another goroutine
// (or a subscriber) is delivering returns at once; the running loop picks
// up the new entries.
func (m *Machine) flush() {
	m.mu.Lock()
	if m.flushing {
		m.mu.Unlock()
		return
	}
	m.flushing = true
	for len(m.pending) > 0 {
		tr := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		m.deliver(tr)
		m.mu.Lock()
	}
	m.flushing = false
	m.mu.Unlock()
}

func (m *Machine) deliver(tr Transition) {
	if m.transitions != nil {
		m.transitions.WithLabelValues(string(tr.To)).Inc()
	}
	m.subMu.Lock()
	fns := make([]func(Transition), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(tr)
	}
}
