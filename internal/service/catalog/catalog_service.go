package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/repository"
	"github.com/sirupsen/logrus"
)

type CatalogUseCase interface {
	List(ctx context.Context) ([]domain.EventCatalogEntry, error)
	Get(ctx context.Context, eventID int64) (*domain.EventCatalogEntry, error)
	CreateEvent(ctx context.Context, event *domain.Event) error
	UpdateEvent(ctx context.Context, event *domain.Event) error
	SetEventActive(ctx context.Context, eventID int64, active bool) error
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	UpdateTicket(ctx context.Context, ticket *domain.Ticket) error
	DeleteTicket(ctx context.Context, ticketID int64) error
	ListCategories(ctx context.Context) ([]domain.TicketCategory, error)
	CreateCategory(ctx context.Context, category *domain.TicketCategory) error
}

// Cache is the read-side catalog cache; the concrete implementation lives
// in internal/cache.
type Cache interface {
	GetCatalog(ctx context.Context) ([]domain.EventCatalogEntry, error)
	SetCatalog(ctx context.Context, entries []domain.EventCatalogEntry) error
	InvalidateCatalog(ctx context.Context) error
}

type Service struct {
	events  repository.EventRepository
	tickets repository.TicketRepository
	cache   Cache
	now     func() time.Time
	log     *logrus.Entry
}

func NewService(events repository.EventRepository, tickets repository.TicketRepository, cache Cache) *Service {
	return &Service{
		events:  events,
		tickets: tickets,
		cache:   cache,
		now:     time.Now,
		log:     logrus.WithField("component", "catalog_service"),
	}
}

// List returns active events with their tickets. Cache-aside: the remaining
// counts in a cached entry can lag by the cache TTL, which is fine because
// every purchase still goes through the ledger's own conditional update.
func (s *Service) List(ctx context.Context) ([]domain.EventCatalogEntry, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCatalog(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.events.List(ctx, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]domain.EventCatalogEntry, 0, len(events))
	for _, event := range events {
		tickets, err := s.tickets.ListByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.EventCatalogEntry{
			Event:   event,
			Status:  event.Status(now),
			Tickets: tickets,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, entries); err != nil {
			s.log.WithError(err).Warn("failed to cache catalog")
		}
	}
	return entries, nil
}

func (s *Service) Get(ctx context.Context, eventID int64) (*domain.EventCatalogEntry, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &domain.EventCatalogEntry{
		Event:   *event,
		Status:  event.Status(s.now()),
		Tickets: tickets,
	}, nil
}

func (s *Service) CreateEvent(ctx context.Context, event *domain.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateEvent(ctx context.Context, event *domain.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.events.Update(ctx, event); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) SetEventActive(ctx context.Context, eventID int64, active bool) error {
	if err := s.events.SetActive(ctx, eventID, active); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := validateTicket(ticket); err != nil {
		return err
	}
	if _, err := s.events.GetByID(ctx, ticket.EventID); err != nil {
		return err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := validateTicket(ticket); err != nil {
		return err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteTicket(ctx context.Context, ticketID int64) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	return s.events.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, category *domain.TicketCategory) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	return s.events.CreateCategory(ctx, category)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.log.WithError(err).Warn("failed to invalidate catalog cache")
	}
}

func validateEvent(event *domain.Event) error {
	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrValidation)
	}
	if !event.EndsAt.After(event.StartsAt) {
		return fmt.Errorf("%w: event must end after it starts", domain.ErrValidation)
	}
	if event.Visibility != domain.EventVisibilityPublic && event.Visibility != domain.EventVisibilityPrivate {
		return fmt.Errorf("%w: unknown visibility %q", domain.ErrValidation, event.Visibility)
	}
	return nil
}

func validateTicket(ticket *domain.Ticket) error {
	if ticket.Name == "" {
		return fmt.Errorf("%w: ticket name is required", domain.ErrValidation)
	}
	if ticket.PriceCents < 0 {
		return fmt.Errorf("%w: ticket price cannot be negative", domain.ErrValidation)
	}
	if ticket.Quota < 0 {
		return fmt.Errorf("%w: ticket quota cannot be negative", domain.ErrValidation)
	}
	return nil
}

var _ CatalogUseCase = (*Service)(nil)
