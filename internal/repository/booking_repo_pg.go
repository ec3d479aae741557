package repository

import (
	"context"
	"errors"

	"github.com/harulab/beachtix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateStatusFromPending applies a terminal transition. The pending
	// guard lives inside the UPDATE itself; a booking already resolved
	// yields ErrIllegalTransition, never a silent second resolution.
	UpdateStatusFromPending(ctx context.Context, id int64, status domain.BookingStatus, reason string) (*domain.Booking, error)
	ListByPurchaser(ctx context.Context, purchaserID int64, status *domain.BookingStatus) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, purchaser_id, payment_method, payment_proof, total_units, total_cents, status, reject_reason, created_at, updated_at`

// Create persists the booking group and its line items in one transaction.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, purchaser_id, payment_method, payment_proof, total_units, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.PurchaserID, booking.PaymentMethod, booking.PaymentProof, booking.TotalUnits, booking.TotalCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	for i := range booking.Items {
		item := &booking.Items[i]
		item.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO booking_items (booking_id, ticket_id, quantity, unit_price_cents, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.BookingID, item.TicketID, item.Quantity, item.UnitPriceCents, item.SubtotalCents).
			Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	booking.Items = items[id]
	return booking, nil
}

func (r *PGBookingRepository) UpdateStatusFromPending(ctx context.Context, id int64, status domain.BookingStatus, reason string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, reject_reason=$3, updated_at=now()
		WHERE id=$1 AND status=$4
		RETURNING `+bookingColumns, id, status, nullableReason(reason), domain.BookingStatusPending)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Row exists but was not pending, or does not exist at all.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrIllegalTransition
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	booking.Items = items[id]
	return booking, nil
}

func (r *PGBookingRepository) ListByPurchaser(ctx context.Context, purchaserID int64, status *domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE purchaser_id=$1 ORDER BY created_at DESC`
	args := []any{purchaserID}
	if status != nil {
		query = `SELECT ` + bookingColumns + ` FROM bookings WHERE purchaser_id=$1 AND status=$2 ORDER BY created_at DESC`
		args = append(args, *status)
	}
	return r.list(ctx, query, args...)
}

// ListByStatus feeds the admin review queue; the ascending id order keeps
// the queue stable between reloads.
func (r *PGBookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 ORDER BY id ASC`, status)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
		ids = append(ids, booking.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return bookings, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Items = items[bookings[i].ID]
	}
	return bookings, nil
}

func (r *PGBookingRepository) loadItems(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, ticket_id, quantity, unit_price_cents, subtotal_cents
		FROM booking_items WHERE booking_id = ANY($1) ORDER BY id`, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]domain.BookingItem)
	for rows.Next() {
		var item domain.BookingItem
		if err := rows.Scan(&item.ID, &item.BookingID, &item.TicketID, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		items[item.BookingID] = append(items[item.BookingID], item)
	}
	return items, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var reason *string
	if err := row.Scan(&b.ID, &b.Reference, &b.PurchaserID, &b.PaymentMethod, &b.PaymentProof, &b.TotalUnits, &b.TotalCents, &b.Status, &reason, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if reason != nil {
		b.RejectReason = *reason
	}
	return &b, nil
}

func nullableReason(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}

var _ BookingRepository = (*PGBookingRepository)(nil)
