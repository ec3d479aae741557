package domain

import "time"

// Ticket is a purchasable class of admission to an event, with its own
// quota and price. A non-empty PrivateCode means the ticket is gated:
// the code must be validated before the first unit can enter a cart.
type Ticket struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Quota       int       `json:"quota"`
	Consumed    int       `json:"consumed"`
	PrivateCode string    `json:"-"`
	ValidOn     time.Time `json:"valid_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Ticket) Remaining() int {
	return t.Quota - t.Consumed
}

func (t *Ticket) SoldOut() bool {
	return t.Remaining() == 0
}

func (t *Ticket) Gated() bool {
	return t.PrivateCode != ""
}
