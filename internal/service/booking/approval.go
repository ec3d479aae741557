package booking

import (
	"context"
	"fmt"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/kafka"
)

// Approve resolves a pending booking as paid. Legal only from PENDING;
// re-invoking on a resolved booking fails with ErrIllegalTransition so an
// operator can never double-approve or flip a decision.
func (s *Service) Approve(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	updated, err := s.bookings.UpdateStatusFromPending(ctx, bookingID, domain.BookingStatusApproved, "")
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventTypeBookingApproved, updated)
	return updated, nil
}

// Reject resolves a pending booking as unpaid. The reason is mandatory and
// is stored verbatim for audit; an empty reason is a validation failure and
// leaves the booking untouched.
func (s *Service) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	reason = trimmedReason(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	updated, err := s.bookings.UpdateStatusFromPending(ctx, bookingID, domain.BookingStatusRejected, reason)
	if err != nil {
		return nil, err
	}

	if s.releaseOnReject {
		for _, item := range updated.Items {
			if err := s.ledger.Release(ctx, item.TicketID, item.Quantity); err != nil {
				s.log.WithError(err).WithFields(map[string]interface{}{
					"booking_id": updated.ID,
					"ticket_id":  item.TicketID,
				}).Error("failed to release capacity for rejected booking")
			}
		}
	}

	s.publish(ctx, kafka.EventTypeBookingRejected, updated)
	return updated, nil
}
