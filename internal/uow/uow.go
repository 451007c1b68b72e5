// Package uow coordinates a transaction with side effects that must
// only happen once the commit is durable, such as cache invalidation
// and pub/sub notifications.
package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/veytrix/busgo/internal/repository/postgres"
)

// AfterCommit runs after a successful commit. Hooks must tolerate being
// skipped: a rolled-back transaction discards them.
type AfterCommit func(ctx context.Context)

type UoW struct {
	store *postgres.Store
}

func New(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction and then fires any
// hooks fn registered, in registration order.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var pending []AfterCommit
	register := func(h AfterCommit) {
		pending = append(pending, h)
	}

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, tx, register)
	})
	if err != nil {
		return err
	}

	for _, hook := range pending {
		hook(ctx)
	}

	return nil
}
