package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

// Booking is one purchaser's single checkout: one or more ticket line
// items reviewed as a unit. PENDING is the only non-terminal status.
type Booking struct {
	ID            int64         `json:"id"`
	Reference     string        `json:"reference"`
	PurchaserID   int64         `json:"purchaser_id"`
	PaymentMethod string        `json:"payment_method"`
	PaymentProof  string        `json:"payment_proof"`
	TotalUnits    int           `json:"total_units"`
	TotalCents    int64         `json:"total_cents"`
	Status        BookingStatus `json:"status"`
	RejectReason  string        `json:"reject_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Items         []BookingItem `json:"items"`
}

// BookingItem snapshots the ticket's unit price at submission time; later
// price edits on the ticket do not touch it.
type BookingItem struct {
	ID             int64 `json:"id"`
	BookingID      int64 `json:"booking_id"`
	TicketID       int64 `json:"ticket_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	SubtotalCents  int64 `json:"subtotal_cents"`
}

func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusApproved || b.Status == BookingStatusRejected
}

// CartLine is the ephemeral client-held selection for one ticket. It is
// never persisted; it exists only until submission or cart abandonment.
type CartLine struct {
	TicketID int64  `json:"ticket_id"`
	Quantity int    `json:"quantity"`
	Code     string `json:"code,omitempty"`
	Admitted bool   `json:"admitted"`
}
