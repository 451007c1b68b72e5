package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type RouteRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RouteRepo) With(db DB) *RouteRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RouteRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *RouteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Route, error) {
	const op = "postgres.RouteRepo.Get"

	var rt domain.Route
	err := r.handle().QueryRow(ctx,
		`SELECT id, origin, destination, distance_km, duration, stops, created_at, updated_at
           FROM routes WHERE id = $1`, id,
	).Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DistanceKm, &rt.Duration, &rt.Stops, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &rt, nil
}

func (r *RouteRepo) List(ctx context.Context, origin, destination string, limit, offset int) ([]domain.Route, error) {
	const op = "postgres.RouteRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT id, origin, destination, distance_km, duration, stops, created_at, updated_at
           FROM routes
          WHERE ($1 = '' OR origin = $1)
            AND ($2 = '' OR destination = $2)
          ORDER BY origin, destination
          LIMIT $3 OFFSET $4`,
		origin, destination, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Route
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DistanceKm, &rt.Duration, &rt.Stops, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *RouteRepo) Create(ctx context.Context, rt *domain.Route) (uuid.UUID, error) {
	const op = "postgres.RouteRepo.Create"

	id := uuid.New()
	now := time.Now().UTC()

	_, err := r.handle().Exec(ctx,
		`INSERT INTO routes (id, origin, destination, distance_km, duration, stops, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$7)`,
		id, rt.Origin, rt.Destination, rt.DistanceKm, rt.Duration, rt.Stops, now,
	)
	if err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *RouteRepo) Update(ctx context.Context, rt *domain.Route) error {
	const op = "postgres.RouteRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE routes
            SET origin = $2, destination = $3, distance_km = $4, duration = $5,
                stops = $6, updated_at = $7
          WHERE id = $1`,
		rt.ID, rt.Origin, rt.Destination, rt.DistanceKm, rt.Duration, rt.Stops, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *RouteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.RouteRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}
