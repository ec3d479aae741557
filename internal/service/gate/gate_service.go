package gate

import (
	"context"
	"crypto/subtle"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/repository"
)

// Gate validates private codes for gated tickets. Admission is recorded by
// the caller's cart session, never here, so re-opening the purchase flow
// always revalidates.
type Gate interface {
	IsGated(ctx context.Context, ticketID int64) (bool, error)
	Validate(ctx context.Context, ticketID int64, code string) error
}

type Service struct {
	tickets repository.TicketRepository
}

func NewService(tickets repository.TicketRepository) *Service {
	return &Service{tickets: tickets}
}

func (s *Service) IsGated(ctx context.Context, ticketID int64) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return false, err
	}
	return ticket.Gated(), nil
}

// Validate checks the supplied code against the stored one. The match is
// exact and case-sensitive.
func (s *Service) Validate(ctx context.Context, ticketID int64, code string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ticket.Gated() {
		return domain.ErrNotGated
	}
	if subtle.ConstantTimeCompare([]byte(ticket.PrivateCode), []byte(code)) != 1 {
		return domain.ErrInvalidCode
	}
	return nil
}

var _ Gate = (*Service)(nil)
