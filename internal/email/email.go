package email

import (
	"context"

	"github.com/harulab/beachtix/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender dispatches purchaser notifications for booking lifecycle events.
// Delivery is a stub: the event is logged where a mail provider call would
// go.
type Sender struct {
	log *logrus.Entry
}

func NewSender() *Sender {
	return &Sender{log: logrus.WithField("component", "email_sender")}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.WithFields(logrus.Fields{
		"type":         event.Type,
		"booking_id":   event.BookingID,
		"reference":    event.Reference,
		"purchaser_id": event.PurchaserID,
		"status":       event.Status,
	}).Info("dispatching booking notification")
	return nil
}
