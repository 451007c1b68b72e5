package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bookingColumns = `id, booking_id, bus_id, trip, selected_seats, seat_names,
       passengers, contact, boarding, dropping, payment, status,
       created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.BookingID, &b.BusID, &b.Trip, &b.SelectedSeats, &b.SeatNames,
		&b.Passengers, &b.Contact, &b.Boarding, &b.Dropping, &b.Payment, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Insert creates the booking document. The completion path calls this
// through With(tx) so the insert commits together with the seat-map
// write-back.
func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) (uuid.UUID, error) {
	const op = "postgres.BookingRepo.Insert"

	id := uuid.New()

	_, err := r.handle().Exec(ctx,
		`INSERT INTO bookings (id, booking_id, bus_id, trip, selected_seats, seat_names,
                               passengers, contact, boarding, dropping, payment, status,
                               created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		id, b.BookingID, b.BusID, b.Trip, b.SelectedSeats, b.SeatNames,
		b.Passengers, b.Contact, b.Boarding, b.Dropping, b.Payment, b.Status,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return id, nil
}

// GetByBookingID retrieves a booking by its human-facing id. Uniqueness
// of booking_id is assumed, not enforced: if several rows match, the
// oldest one wins.
func (r *BookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.GetByBookingID"

	b, err := scanBooking(r.handle().QueryRow(ctx,
		`SELECT `+bookingColumns+`
           FROM bookings
          WHERE booking_id = $1
          ORDER BY created_at
          LIMIT 1`,
		bookingID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

type BookingFilter struct {
	Status   domain.BookingStatus
	BusID    *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
           FROM bookings
          WHERE ($1 = '' OR status = $1)
            AND ($2::uuid IS NULL OR bus_id = $2)
            AND ($3::timestamptz IS NULL OR created_at >= $3)
            AND ($4::timestamptz IS NULL OR created_at <= $4)
          ORDER BY created_at DESC
          LIMIT $5 OFFSET $6`,
		string(f.Status), f.BusID, f.DateFrom, f.DateTo, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateStatus transitions the booking identified by its human-facing id.
func (r *BookingRepo) UpdateStatus(
	ctx context.Context,
	bookingID string,
	status domain.BookingStatus,
) error {
	const op = "postgres.BookingRepo.UpdateStatus"

	tag, err := r.handle().Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE booking_id = $1`,
		bookingID, status, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// CountByStatus returns booking counts grouped by status.
func (r *BookingRepo) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	const op = "postgres.BookingRepo.CountByStatus"

	rows, err := r.handle().Query(ctx,
		`SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	out := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status domain.BookingStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
