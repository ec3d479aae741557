package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes with the same conditional semantics as the Postgres
// repositories, for exercising the whole submit/review flow end to end.

type memTickets struct {
	mu      sync.Mutex
	tickets map[int64]*domain.Ticket
}

func newMemTickets(tickets ...*domain.Ticket) *memTickets {
	m := &memTickets{tickets: make(map[int64]*domain.Ticket)}
	for _, t := range tickets {
		m.tickets[t.ID] = t
	}
	return m
}

func (m *memTickets) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memTickets) ListByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	return nil, nil
}
func (m *memTickets) Create(ctx context.Context, ticket *domain.Ticket) error { return nil }
func (m *memTickets) Update(ctx context.Context, ticket *domain.Ticket) error { return nil }
func (m *memTickets) Delete(ctx context.Context, id int64) error              { return nil }

func (m *memTickets) Reserve(ctx context.Context, id int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Consumed+qty > t.Quota {
		return domain.ErrInsufficientCapacity
	}
	t.Consumed += qty
	return nil
}

func (m *memTickets) Release(ctx context.Context, id int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Consumed < qty {
		return domain.ErrValidation
	}
	t.Consumed -= qty
	return nil
}

type memBookings struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{nextID: 1, byID: make(map[int64]*domain.Booking)}
}

func (m *memBookings) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = m.nextID
	m.nextID++
	booking.Status = domain.BookingStatusPending
	copied := *booking
	m.byID[booking.ID] = &copied
	return nil
}

func (m *memBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memBookings) UpdateStatusFromPending(ctx context.Context, id int64, status domain.BookingStatus, reason string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != domain.BookingStatusPending {
		return nil, domain.ErrIllegalTransition
	}
	b.Status = status
	b.RejectReason = reason
	copied := *b
	return &copied, nil
}

func (m *memBookings) ListByPurchaser(ctx context.Context, purchaserID int64, status *domain.BookingStatus) ([]domain.Booking, error) {
	return nil, nil
}

func (m *memBookings) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return nil, nil
}

// The worked example: quota 2, purchaser A takes both units, purchaser B
// loses, the admin rejects A's booking, a later approve fails, and the
// rejected capacity stays consumed.
func TestBookingLifecycle_Scenario(t *testing.T) {
	ctx := context.Background()
	tickets := newMemTickets(&domain.Ticket{ID: 1, Name: "T1", PriceCents: 2500, Quota: 2})
	bookings := newMemBookings()
	lgr := ledger.NewService(tickets, 0)
	service := NewService(bookings, tickets, lgr, nil, "")

	// Purchaser A books both units.
	bookingA, err := service.Submit(ctx, SubmitInput{
		PurchaserID:   1,
		Lines:         []domain.CartLine{{TicketID: 1, Quantity: 2}},
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, bookingA.Status)

	remaining, err := lgr.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Purchaser B races in and loses.
	_, err = service.Submit(ctx, SubmitInput{
		PurchaserID:   2,
		Lines:         []domain.CartLine{{TicketID: 1, Quantity: 1}},
		PaymentMethod: "bank_transfer",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)

	// The admin rejects A's payment.
	rejected, err := service.Reject(ctx, bookingA.ID, "duplicate payment")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRejected, rejected.Status)
	assert.Equal(t, "duplicate payment", rejected.RejectReason)

	// A second decision on the same booking fails loudly.
	_, err = service.Approve(ctx, bookingA.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// Rejection does not return capacity under the default policy.
	remaining, err = lgr.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestBookingLifecycle_SubmissionRollbackRestoresRemaining(t *testing.T) {
	ctx := context.Background()
	tickets := newMemTickets(
		&domain.Ticket{ID: 1, PriceCents: 1000, Quota: 5},
		&domain.Ticket{ID: 2, PriceCents: 1000, Quota: 1},
	)
	lgr := ledger.NewService(tickets, 0)
	service := NewService(newMemBookings(), tickets, lgr, nil, "")

	before, err := lgr.Remaining(ctx, 1)
	require.NoError(t, err)

	// Second line wants 2 of a ticket with 1 remaining; the whole
	// submission fails and the first line's reservation is returned.
	_, err = service.Submit(ctx, SubmitInput{
		PurchaserID: 1,
		Lines: []domain.CartLine{
			{TicketID: 1, Quantity: 3},
			{TicketID: 2, Quantity: 2},
		},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, int64(2), subErr.TicketID)

	after, err := lgr.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
