package repository

import (
	"context"
	"errors"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	List(ctx context.Context, onlyActive bool) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	SetActive(ctx context.Context, id int64, active bool) error
	ListCategories(ctx context.Context) ([]domain.TicketCategory, error)
	CreateCategory(ctx context.Context, category *domain.TicketCategory) error
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

const eventColumns = `id, name, location, starts_at, ends_at, visibility, active, created_at, updated_at`

func (r *PGEventRepository) List(ctx context.Context, onlyActive bool) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at`
	if onlyActive {
		query = `SELECT ` + eventColumns + ` FROM events WHERE active ORDER BY starts_at`
	}
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Location, &e.StartsAt, &e.EndsAt, &e.Visibility, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Location, &e.StartsAt, &e.EndsAt, &e.Visibility, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.QueryRow(ctx, `INSERT INTO events (name, location, starts_at, ends_at, visibility, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		event.Name, event.Location, event.StartsAt, event.EndsAt, event.Visibility, event.Active).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *PGEventRepository) Update(ctx context.Context, event *domain.Event) error {
	res, err := r.db.Exec(ctx, `UPDATE events SET name=$2, location=$3, starts_at=$4, ends_at=$5, visibility=$6, updated_at=now() WHERE id=$1`,
		event.ID, event.Name, event.Location, event.StartsAt, event.EndsAt, event.Visibility)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGEventRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.Exec(ctx, `UPDATE events SET active=$2, updated_at=now() WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGEventRepository) ListCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM ticket_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.TicketCategory, 0)
	for rows.Next() {
		var c domain.TicketCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PGEventRepository) CreateCategory(ctx context.Context, category *domain.TicketCategory) error {
	return r.db.QueryRow(ctx, `INSERT INTO ticket_categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
}

var _ EventRepository = (*PGEventRepository)(nil)
