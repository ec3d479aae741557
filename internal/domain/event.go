package domain

import "time"

type EventVisibility string

const (
	EventVisibilityPublic  EventVisibility = "PUBLIC"
	EventVisibilityPrivate EventVisibility = "PRIVATE"
)

type EventStatus string

const (
	EventStatusUpcoming   EventStatus = "UPCOMING"
	EventStatusOngoing    EventStatus = "ONGOING"
	EventStatusEndingSoon EventStatus = "ENDING_SOON"
	EventStatusEnded      EventStatus = "ENDED"
)

// EndingSoonWindow is how close to the end time an ongoing event is
// reported as ENDING_SOON.
const EndingSoonWindow = 24 * time.Hour

type Event struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Location   string          `json:"location"`
	StartsAt   time.Time       `json:"starts_at"`
	EndsAt     time.Time       `json:"ends_at"`
	Visibility EventVisibility `json:"visibility"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Status is derived from the clock, never stored.
func (e *Event) Status(now time.Time) EventStatus {
	switch {
	case now.Before(e.StartsAt):
		return EventStatusUpcoming
	case now.After(e.EndsAt):
		return EventStatusEnded
	case e.EndsAt.Sub(now) <= EndingSoonWindow:
		return EventStatusEndingSoon
	default:
		return EventStatusOngoing
	}
}

type TicketCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventCatalogEntry pairs an event with its tickets for the public catalog.
// Status is computed at read time.
type EventCatalogEntry struct {
	Event   Event       `json:"event"`
	Status  EventStatus `json:"status"`
	Tickets []Ticket    `json:"tickets"`
}
