package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/repository"
)

// Ledger is the authoritative counter of consumed vs available units per
// ticket. Reserve is the only mutation the rest of the system may use to
// take capacity; there is no raw increment.
type Ledger interface {
	Remaining(ctx context.Context, ticketID int64) (int, error)
	IsSoldOut(ctx context.Context, ticketID int64) (bool, error)
	Reserve(ctx context.Context, ticketID int64, qty int) error
	Release(ctx context.Context, ticketID int64, qty int) error
}

type Service struct {
	tickets        repository.TicketRepository
	reserveTimeout time.Duration
}

func NewService(tickets repository.TicketRepository, reserveTimeout time.Duration) *Service {
	return &Service{tickets: tickets, reserveTimeout: reserveTimeout}
}

func (s *Service) Remaining(ctx context.Context, ticketID int64) (int, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	return ticket.Remaining(), nil
}

func (s *Service) IsSoldOut(ctx context.Context, ticketID int64) (bool, error) {
	remaining, err := s.Remaining(ctx, ticketID)
	if err != nil {
		return false, err
	}
	return remaining == 0, nil
}

// Reserve debits qty units. The conditional update in the repository is the
// serialization point; this wrapper adds the fail-closed timeout: a ledger
// update that times out is reported as insufficient capacity, never as
// silently granted.
func (s *Service) Reserve(ctx context.Context, ticketID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: reserve quantity must be positive", domain.ErrValidation)
	}

	if s.reserveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reserveTimeout)
		defer cancel()
	}

	if err := s.tickets.Reserve(ctx, ticketID, qty); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: ledger update timed out", domain.ErrInsufficientCapacity)
		}
		return err
	}
	return nil
}

func (s *Service) Release(ctx context.Context, ticketID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: release quantity must be positive", domain.ErrValidation)
	}
	return s.tickets.Release(ctx, ticketID, qty)
}

var _ Ledger = (*Service)(nil)
