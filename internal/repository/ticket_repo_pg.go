package repository

import (
	"context"
	"errors"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	Reserve(ctx context.Context, id int64, qty int) error
	Release(ctx context.Context, id int64, qty int) error
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, event_id, category_id, name, description, price_cents, quota, consumed, private_code, valid_on, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.EventID, &t.CategoryID, &t.Name, &t.Description, &t.PriceCents, &t.Quota, &t.Consumed, &t.PrivateCode, &t.ValidOn, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
}

func (r *PGTicketRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE event_id=$1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.CategoryID, &t.Name, &t.Description, &t.PriceCents, &t.Quota, &t.Consumed, &t.PrivateCode, &t.ValidOn, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.QueryRow(ctx, `INSERT INTO tickets (event_id, category_id, name, description, price_cents, quota, consumed, private_code, valid_on)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		RETURNING id, consumed, created_at, updated_at`,
		ticket.EventID, ticket.CategoryID, ticket.Name, ticket.Description, ticket.PriceCents, ticket.Quota, ticket.PrivateCode, ticket.ValidOn).
		Scan(&ticket.ID, &ticket.Consumed, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update edits the organizer-owned fields. The quota edit is conditional so
// a shrink can never push quota below what is already consumed.
func (r *PGTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.db.Exec(ctx, `UPDATE tickets SET category_id=$2, name=$3, description=$4, price_cents=$5, quota=$6, private_code=$7, valid_on=$8, updated_at=now()
		WHERE id=$1 AND consumed <= $6`,
		ticket.ID, ticket.CategoryID, ticket.Name, ticket.Description, ticket.PriceCents, ticket.Quota, ticket.PrivateCode, ticket.ValidOn)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, ticket.ID); err != nil {
			return err
		}
		return domain.ErrValidation
	}
	return nil
}

func (r *PGTicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Reserve debits qty units in a single conditional update. The guard
// `consumed + qty <= quota` is evaluated inside the UPDATE, so two racing
// reservations that together exceed the quota serialize on the row and
// exactly one of them fails.
func (r *PGTicketRepository) Reserve(ctx context.Context, id int64, qty int) error {
	res, err := r.db.Exec(ctx, `UPDATE tickets SET consumed = consumed + $2, updated_at = now() WHERE id=$1 AND consumed + $2 <= quota`, id, qty)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientCapacity
	}
	return nil
}

// Release returns qty units to the pool. Used only to roll back a partial
// submission and, when the release-on-reject policy is on, to free a
// rejected booking's units. Never drives consumed below zero; releasing
// more than is consumed is an invariant violation, not a missing row.
func (r *PGTicketRepository) Release(ctx context.Context, id int64, qty int) error {
	res, err := r.db.Exec(ctx, `UPDATE tickets SET consumed = consumed - $2, updated_at = now() WHERE id=$1 AND consumed >= $2`, id, qty)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrValidation
	}
	return nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
