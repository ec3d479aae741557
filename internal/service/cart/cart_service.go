package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/service/gate"
	"github.com/harulab/beachtix/internal/service/ledger"
)

// Manager holds the server side of cart sessions. A session aggregates
// desired quantities per ticket and the gate admissions obtained during it.
// All capacity checks here are optimistic, against the remaining count last
// read through the ledger; the authoritative check happens at submission
// through ledger.Reserve.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session

	ledger ledger.Ledger
	gate   gate.Gate
	ttl    time.Duration
	now    func() time.Time
}

type session struct {
	id          string
	purchaserID int64
	lines       map[int64]*line
	touchedAt   time.Time
}

type line struct {
	ticketID  int64
	quantity  int
	code      string
	admitted  bool
	remaining int
}

func NewManager(lgr ledger.Ledger, g gate.Gate, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		ledger:   lgr,
		gate:     g,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Manager) Create(purchaserID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.sessions[id] = &session{
		id:          id,
		purchaserID: purchaserID,
		lines:       make(map[int64]*line),
		touchedAt:   m.now(),
	}
	return id
}

// Drop removes a session, on submission or abandonment.
func (m *Manager) Drop(cartID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, cartID)
}

func (m *Manager) PurchaserID(cartID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return 0, err
	}
	return sess.purchaserID, nil
}

// Admit validates the private code for a gated ticket and records the
// admission in the session. Once admitted, further quantity increases for
// the same ticket do not re-prompt. Admission never outlives the session.
func (m *Manager) Admit(ctx context.Context, cartID string, ticketID int64, code string) error {
	if err := m.gate.Validate(ctx, ticketID, code); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return err
	}
	ln := sess.line(ticketID)
	ln.code = code
	ln.admitted = true
	return nil
}

// Increment raises the ticket's desired quantity by one. It is rejected
// when the ticket is sold out, when the new quantity would exceed the
// remaining capacity last read, or when the ticket is gated and the session
// holds no admission for it yet.
func (m *Manager) Increment(ctx context.Context, cartID string, ticketID int64) (int, error) {
	gated, err := m.gate.IsGated(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	soldOut, err := m.ledger.IsSoldOut(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	remaining, err := m.ledger.Remaining(ctx, ticketID)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return 0, err
	}

	ln := sess.line(ticketID)
	ln.remaining = remaining

	if gated && !ln.admitted {
		return ln.quantity, domain.ErrCodeRequired
	}
	if soldOut {
		return ln.quantity, domain.ErrSoldOut
	}
	if ln.quantity+1 > ln.remaining {
		return ln.quantity, domain.ErrInsufficientCapacity
	}

	ln.quantity++
	return ln.quantity, nil
}

// Decrement lowers the quantity by one, flooring at zero.
func (m *Manager) Decrement(cartID string, ticketID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return 0, err
	}

	ln, ok := sess.lines[ticketID]
	if !ok || ln.quantity == 0 {
		return 0, nil
	}
	ln.quantity--
	return ln.quantity, nil
}

// Lines returns the submittable line-item set: every ticket with a positive
// quantity, with its admission state, in ticket-id order.
func (m *Manager) Lines(cartID string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(sess.lines))
	for _, ln := range sess.lines {
		if ln.quantity == 0 {
			continue
		}
		lines = append(lines, domain.CartLine{
			TicketID: ln.ticketID,
			Quantity: ln.quantity,
			Code:     ln.code,
			Admitted: ln.admitted,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].TicketID < lines[j].TicketID })
	return lines, nil
}

func (m *Manager) TotalUnits(cartID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.session(cartID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, ln := range sess.lines {
		total += ln.quantity
	}
	return total, nil
}

// session looks up a live session and touches it. Expired sessions are
// dropped lazily here. Callers hold m.mu.
func (m *Manager) session(cartID string) (*session, error) {
	sess, ok := m.sessions[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	if m.ttl > 0 && m.now().Sub(sess.touchedAt) > m.ttl {
		delete(m.sessions, cartID)
		return nil, domain.ErrCartNotFound
	}
	sess.touchedAt = m.now()
	return sess, nil
}

func (s *session) line(ticketID int64) *line {
	ln, ok := s.lines[ticketID]
	if !ok {
		ln = &line{ticketID: ticketID}
		s.lines[ticketID] = ln
	}
	return ln
}
