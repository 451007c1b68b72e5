package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type OperatorRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OperatorRepo) With(db DB) *OperatorRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OperatorRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *OperatorRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	const op = "postgres.OperatorRepo.Get"

	var o domain.Operator
	err := r.handle().QueryRow(ctx,
		`SELECT id, name, contact_email, phone, status, created_at, updated_at
           FROM operators WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.ContactEmail, &o.Phone, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

func (r *OperatorRepo) List(ctx context.Context, status string, limit, offset int) ([]domain.Operator, error) {
	const op = "postgres.OperatorRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT id, name, contact_email, phone, status, created_at, updated_at
           FROM operators
          WHERE ($1 = '' OR status = $1)
          ORDER BY name
          LIMIT $2 OFFSET $3`,
		status, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Operator
	for rows.Next() {
		var o domain.Operator
		if err := rows.Scan(&o.ID, &o.Name, &o.ContactEmail, &o.Phone, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *OperatorRepo) Create(ctx context.Context, o *domain.Operator) (uuid.UUID, error) {
	const op = "postgres.OperatorRepo.Create"

	id := uuid.New()
	now := time.Now().UTC()

	_, err := r.handle().Exec(ctx,
		`INSERT INTO operators (id, name, contact_email, phone, status, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$6)`,
		id, o.Name, o.ContactEmail, o.Phone, o.Status, now,
	)
	if err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *OperatorRepo) Update(ctx context.Context, o *domain.Operator) error {
	const op = "postgres.OperatorRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE operators
            SET name = $2, contact_email = $3, phone = $4, status = $5, updated_at = $6
          WHERE id = $1`,
		o.ID, o.Name, o.ContactEmail, o.Phone, o.Status, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *OperatorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.OperatorRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM operators WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *OperatorRepo) Count(ctx context.Context) (int64, error) {
	const op = "postgres.OperatorRepo.Count"

	var n int64
	if err := r.handle().QueryRow(ctx, `SELECT count(*) FROM operators`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
