package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/kafka"
	"github.com/harulab/beachtix/internal/repository"
	"github.com/harulab/beachtix/internal/service/ledger"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Booking, error)
	Approve(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error)
	ListByStatus(ctx context.Context, purchaserID *int64, status domain.BookingStatus) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Service struct {
	bookings           repository.BookingRepository
	tickets            repository.TicketRepository
	ledger             ledger.Ledger
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	releaseOnReject    bool
	log                *logrus.Entry
}

type SubmitInput struct {
	PurchaserID   int64             `json:"purchaser_id"`
	Lines         []domain.CartLine `json:"lines"`
	PaymentMethod string            `json:"payment_method"`
	PaymentProof  string            `json:"payment_proof"`
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

// WithReleaseOnReject turns on returning a rejected booking's consumed
// capacity to the pool. The default keeps the observed platform behavior:
// the slot stays consumed after rejection.
func WithReleaseOnReject() ServiceOption {
	return func(s *Service) {
		s.releaseOnReject = true
	}
}

func NewService(
	bookings repository.BookingRepository,
	tickets repository.TicketRepository,
	lgr ledger.Ledger,
	producer Producer,
	bookingTopic string,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		bookings:     bookings,
		tickets:      tickets,
		ledger:       lgr,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          logrus.WithField("component", "booking_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit turns a cart's line-item set into a pending booking. Capacity is
// taken line by line through the ledger; if any line fails, every
// reservation already taken in this submission is released before the error
// is returned, so a lost race never leaves a half-reserved booking behind.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.Booking, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrEmptyCart)
	}
	if input.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", domain.ErrValidation)
	}
	for _, ln := range input.Lines {
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive for ticket %d", domain.ErrValidation, ln.TicketID)
		}
	}

	booking := &domain.Booking{
		Reference:     uuid.NewString(),
		PurchaserID:   input.PurchaserID,
		PaymentMethod: input.PaymentMethod,
		PaymentProof:  input.PaymentProof,
	}

	reserved := make([]domain.CartLine, 0, len(input.Lines))
	fail := func(ticketID int64, err error) (*domain.Booking, error) {
		s.rollback(ctx, reserved)
		return nil, &domain.SubmissionError{TicketID: ticketID, Err: err}
	}

	for _, ln := range input.Lines {
		ticket, err := s.tickets.GetByID(ctx, ln.TicketID)
		if err != nil {
			return fail(ln.TicketID, err)
		}
		if ticket.Gated() && !ln.Admitted {
			return fail(ln.TicketID, domain.ErrCodeRequired)
		}

		if err := s.ledger.Reserve(ctx, ln.TicketID, ln.Quantity); err != nil {
			return fail(ln.TicketID, err)
		}
		reserved = append(reserved, ln)

		subtotal := int64(ln.Quantity) * ticket.PriceCents
		booking.Items = append(booking.Items, domain.BookingItem{
			TicketID:       ln.TicketID,
			Quantity:       ln.Quantity,
			UnitPriceCents: ticket.PriceCents,
			SubtotalCents:  subtotal,
		})
		booking.TotalUnits += ln.Quantity
		booking.TotalCents += subtotal
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return fail(0, err)
	}

	s.publish(ctx, kafka.EventTypeBookingSubmitted, booking)
	return booking, nil
}

// rollback releases reservations taken earlier in a failed submission, most
// recent first.
func (s *Service) rollback(ctx context.Context, reserved []domain.CartLine) {
	for i := len(reserved) - 1; i >= 0; i-- {
		ln := reserved[i]
		if err := s.ledger.Release(ctx, ln.TicketID, ln.Quantity); err != nil {
			s.log.WithError(err).WithField("ticket_id", ln.TicketID).Error("failed to release reservation during rollback")
		}
	}
}

func (s *Service) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		PurchaserID:  booking.PurchaserID,
		Status:       string(booking.Status),
		TotalUnits:   booking.TotalUnits,
		TotalCents:   booking.TotalCents,
		RejectReason: booking.RejectReason,
		OccurredAt:   time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warn("failed to publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.log.WithError(err).WithField("booking_id", booking.ID).Warn("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*Service)(nil)

// trimmedReason normalizes the operator-supplied rejection reason.
func trimmedReason(reason string) string {
	return strings.TrimSpace(reason)
}
