package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veytrix/busgo/internal/domain"
)

type AdminRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AdminRepo) With(db DB) *AdminRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AdminRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const op = "postgres.AdminRepo.GetByEmail"

	var a domain.Admin
	err := r.handle().QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at
           FROM admins WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func (r *AdminRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	const op = "postgres.AdminRepo.Get"

	var a domain.Admin
	err := r.handle().QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at
           FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

// InsertLog appends an admin action record. Mutating services call this
// through With(tx) so the log row commits with the mutation it records.
func (r *AdminRepo) InsertLog(ctx context.Context, l *domain.AdminLog) error {
	const op = "postgres.AdminRepo.InsertLog"

	_, err := r.handle().Exec(ctx,
		`INSERT INTO admin_logs (id, admin_id, action, entity, entity_id, detail, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		uuid.New(), l.AdminID, l.Action, l.Entity, l.EntityID, l.Detail, time.Now().UTC(),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AdminRepo) ListLogs(ctx context.Context, adminID *uuid.UUID, limit, offset int) ([]domain.AdminLog, error) {
	const op = "postgres.AdminRepo.ListLogs"

	rows, err := r.handle().Query(ctx,
		`SELECT id, admin_id, action, entity, entity_id, detail, created_at
           FROM admin_logs
          WHERE ($1::uuid IS NULL OR admin_id = $1)
          ORDER BY created_at DESC
          LIMIT $2 OFFSET $3`,
		adminID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.AdminLog
	for rows.Next() {
		var l domain.AdminLog
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.Entity, &l.EntityID, &l.Detail, &l.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
