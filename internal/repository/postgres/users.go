package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.UserRepo.Get"

	var u domain.User
	err := r.handle().QueryRow(ctx,
		`SELECT id, name, email, phone, status, created_at, updated_at
           FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}

// List searches users by name or email substring, DB-side.
func (r *UserRepo) List(ctx context.Context, search string, limit, offset int) ([]domain.User, error) {
	const op = "postgres.UserRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT id, name, email, phone, status, created_at, updated_at
           FROM users
          WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
          ORDER BY created_at DESC
          LIMIT $2 OFFSET $3`,
		search, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (uuid.UUID, error) {
	const op = "postgres.UserRepo.Create"

	id := uuid.New()
	now := time.Now().UTC()

	_, err := r.handle().Exec(ctx,
		`INSERT INTO users (id, name, email, phone, status, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$6)`,
		id, u.Name, u.Email, u.Phone, u.Status, now,
	)
	if err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	const op = "postgres.UserRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE users
            SET name = $2, email = $3, phone = $4, status = $5, updated_at = $6
          WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Phone, u.Status, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.UserRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	const op = "postgres.UserRepo.Count"

	var n int64
	if err := r.handle().QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
