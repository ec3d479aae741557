package booking

import (
	"context"

	"github.com/harulab/beachtix/internal/domain"
)

// ListByStatus serves both sides of the review workflow. With a purchaser
// it returns that purchaser's bookings, most recent first; without one it
// returns the admin review queue in ascending booking-id order, so the
// queue is deterministic between reloads. Line items are always folded into
// their group: one row per booking with the aggregated total and the
// group's single status and rejection reason.
func (s *Service) ListByStatus(ctx context.Context, purchaserID *int64, status domain.BookingStatus) ([]domain.Booking, error) {
	if purchaserID != nil {
		return s.bookings.ListByPurchaser(ctx, *purchaserID, &status)
	}
	return s.bookings.ListByStatus(ctx, status)
}
