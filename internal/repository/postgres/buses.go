package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type BusRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BusRepo) With(db DB) *BusRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BusRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const busColumns = `id, operator_id, number, bus_type, route_from, route_to,
       depart_date, depart_time, arrive_time, duration, fare_cents,
       seat_layout, available_seats, created_at, updated_at`

func scanBus(row pgx.Row) (*domain.Bus, error) {
	var b domain.Bus
	err := row.Scan(
		&b.ID, &b.OperatorID, &b.Number, &b.BusType, &b.RouteFrom, &b.RouteTo,
		&b.DepartDate, &b.DepartTime, &b.ArriveTime, &b.Duration, &b.FareCents,
		&b.SeatLayout, &b.AvailableSeats, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get retrieves a bus by id.
//
// Returns repository.ErrNotFound when no bus exists with that id.
func (r *BusRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	const op = "postgres.BusRepo.Get"

	b, err := scanBus(r.handle().QueryRow(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// GetForUpdate reads the bus row with a row lock. It must run inside a
// transaction (use With); the booking completion path reads through this
// so concurrent completions against the same bus serialize.
func (r *BusRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	const op = "postgres.BusRepo.GetForUpdate"

	b, err := scanBus(r.handle().QueryRow(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// UpdateSeatInventory writes back the full seat layout and the derived
// available-seat count.
func (r *BusRepo) UpdateSeatInventory(
	ctx context.Context,
	id uuid.UUID,
	layout domain.SeatLayout,
	availableSeats int,
	updatedAt time.Time,
) error {
	const op = "postgres.BusRepo.UpdateSeatInventory"

	tag, err := r.handle().Exec(ctx,
		`UPDATE buses
            SET seat_layout = $2, available_seats = $3, updated_at = $4
          WHERE id = $1`,
		id, layout, availableSeats, updatedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

type BusFilter struct {
	OperatorID *uuid.UUID
	RouteFrom  string
	RouteTo    string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// List retrieves buses matching the filter. Filtering happens in the
// query, not over a fully fetched collection.
func (r *BusRepo) List(ctx context.Context, f BusFilter) ([]domain.Bus, error) {
	const op = "postgres.BusRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+busColumns+`
           FROM buses
          WHERE ($1::uuid IS NULL OR operator_id = $1)
            AND ($2 = '' OR route_from = $2)
            AND ($3 = '' OR route_to = $3)
            AND ($4::date IS NULL OR depart_date >= $4)
            AND ($5::date IS NULL OR depart_date <= $5)
          ORDER BY depart_date, depart_time
          LIMIT $6 OFFSET $7`,
		f.OperatorID, f.RouteFrom, f.RouteTo, f.DateFrom, f.DateTo, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Bus
	for rows.Next() {
		b, err := scanBus(rows)
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

// Create inserts a bus. available_seats is derived from the layout by the
// caller, not trusted from input.
func (r *BusRepo) Create(ctx context.Context, b *domain.Bus) (uuid.UUID, error) {
	const op = "postgres.BusRepo.Create"

	id := uuid.New()
	now := time.Now().UTC()

	_, err := r.handle().Exec(ctx,
		`INSERT INTO buses (id, operator_id, number, bus_type, route_from, route_to,
                            depart_date, depart_time, arrive_time, duration, fare_cents,
                            seat_layout, available_seats, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)`,
		id, b.OperatorID, b.Number, b.BusType, b.RouteFrom, b.RouteTo,
		b.DepartDate, b.DepartTime, b.ArriveTime, b.Duration, b.FareCents,
		b.SeatLayout, b.AvailableSeats, now,
	)
	if err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *BusRepo) Update(ctx context.Context, b *domain.Bus) error {
	const op = "postgres.BusRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE buses
            SET operator_id = $2, number = $3, bus_type = $4, route_from = $5,
                route_to = $6, depart_date = $7, depart_time = $8, arrive_time = $9,
                duration = $10, fare_cents = $11, seat_layout = $12,
                available_seats = $13, updated_at = $14
          WHERE id = $1`,
		b.ID, b.OperatorID, b.Number, b.BusType, b.RouteFrom, b.RouteTo,
		b.DepartDate, b.DepartTime, b.ArriveTime, b.Duration, b.FareCents,
		b.SeatLayout, b.AvailableSeats, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *BusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.BusRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *BusRepo) Count(ctx context.Context) (int64, error) {
	const op = "postgres.BusRepo.Count"

	var n int64
	if err := r.handle().QueryRow(ctx, `SELECT count(*) FROM buses`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
