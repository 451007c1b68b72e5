// Package fleet carries the admin console's mutating operations: buses,
// operators, routes and users. Every mutation commits together with an
// admin_logs row recording who did what.
package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	redisx "github.com/veytrix/busgo/internal/redis"
	"github.com/veytrix/busgo/internal/uow"
)

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.BusPubSub
	uow    *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.BusPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.New(store),
	}
}

// CreateBus inserts a bus. The available-seat counter is derived from
// the submitted layout, never trusted from input, so the counter
// invariant holds from the first write.
func (s *Service) CreateBus(ctx context.Context, adminID uuid.UUID, b *domain.Bus) (uuid.UUID, error) {
	const op = "service.fleet.CreateBus"

	if b.SeatLayout.CountAvailable() == 0 {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmptySeatLayout)
	}

	b.AvailableSeats = b.SeatLayout.CountAvailable()

	var id uuid.UUID
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Buses().With(tx).Create(ctx, b)
		if err != nil {
			return translate(op, err, ErrBusNotFound)
		}

		return s.log(ctx, tx, adminID, "create", "bus", id.String(), map[string]any{
			"number": b.Number, "route": b.RouteFrom + "-" + b.RouteTo,
		})
	})

	return id, err
}

func (s *Service) UpdateBus(ctx context.Context, adminID uuid.UUID, b *domain.Bus) error {
	const op = "service.fleet.UpdateBus"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Buses().With(tx).Update(ctx, b); err != nil {
			return translate(op, err, ErrBusNotFound)
		}

		if err := s.log(ctx, tx, adminID, "update", "bus", b.ID.String(), nil); err != nil {
			return err
		}

		busID := b.ID.String()
		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBus(ctx, busID)
			_ = s.pubsub.PublishBusChanged(ctx, busID)
		})

		return nil
	})

	return err
}

func (s *Service) DeleteBus(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error {
	const op = "service.fleet.DeleteBus"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Buses().With(tx).Delete(ctx, id); err != nil {
			return translate(op, err, ErrBusNotFound)
		}

		if err := s.log(ctx, tx, adminID, "delete", "bus", id.String(), nil); err != nil {
			return err
		}

		busID := id.String()
		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBus(ctx, busID)
		})

		return nil
	})

	return err
}

func (s *Service) CreateOperator(ctx context.Context, adminID uuid.UUID, o *domain.Operator) (uuid.UUID, error) {
	const op = "service.fleet.CreateOperator"

	var id uuid.UUID
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Operators().With(tx).Create(ctx, o)
		if err != nil {
			return translate(op, err, ErrOperatorNotFound)
		}

		return s.log(ctx, tx, adminID, "create", "operator", id.String(), map[string]any{"name": o.Name})
	})

	return id, err
}

func (s *Service) UpdateOperator(ctx context.Context, adminID uuid.UUID, o *domain.Operator) error {
	const op = "service.fleet.UpdateOperator"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Operators().With(tx).Update(ctx, o); err != nil {
			return translate(op, err, ErrOperatorNotFound)
		}

		return s.log(ctx, tx, adminID, "update", "operator", o.ID.String(), nil)
	})
}

func (s *Service) DeleteOperator(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error {
	const op = "service.fleet.DeleteOperator"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Operators().With(tx).Delete(ctx, id); err != nil {
			return translate(op, err, ErrOperatorNotFound)
		}

		return s.log(ctx, tx, adminID, "delete", "operator", id.String(), nil)
	})
}

func (s *Service) CreateRoute(ctx context.Context, adminID uuid.UUID, rt *domain.Route) (uuid.UUID, error) {
	const op = "service.fleet.CreateRoute"

	var id uuid.UUID
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Routes().With(tx).Create(ctx, rt)
		if err != nil {
			return translate(op, err, ErrRouteNotFound)
		}

		return s.log(ctx, tx, adminID, "create", "route", id.String(), map[string]any{
			"origin": rt.Origin, "destination": rt.Destination,
		})
	})

	return id, err
}

func (s *Service) UpdateRoute(ctx context.Context, adminID uuid.UUID, rt *domain.Route) error {
	const op = "service.fleet.UpdateRoute"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Routes().With(tx).Update(ctx, rt); err != nil {
			return translate(op, err, ErrRouteNotFound)
		}

		return s.log(ctx, tx, adminID, "update", "route", rt.ID.String(), nil)
	})
}

func (s *Service) DeleteRoute(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error {
	const op = "service.fleet.DeleteRoute"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Routes().With(tx).Delete(ctx, id); err != nil {
			return translate(op, err, ErrRouteNotFound)
		}

		return s.log(ctx, tx, adminID, "delete", "route", id.String(), nil)
	})
}

func (s *Service) CreateUser(ctx context.Context, adminID uuid.UUID, u *domain.User) (uuid.UUID, error) {
	const op = "service.fleet.CreateUser"

	var id uuid.UUID
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Users().With(tx).Create(ctx, u)
		if err != nil {
			return translate(op, err, ErrUserNotFound)
		}

		return s.log(ctx, tx, adminID, "create", "user", id.String(), map[string]any{"email": u.Email})
	})

	return id, err
}

func (s *Service) UpdateUser(ctx context.Context, adminID uuid.UUID, u *domain.User) error {
	const op = "service.fleet.UpdateUser"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Users().With(tx).Update(ctx, u); err != nil {
			return translate(op, err, ErrUserNotFound)
		}

		return s.log(ctx, tx, adminID, "update", "user", u.ID.String(), nil)
	})
}

func (s *Service) DeleteUser(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error {
	const op = "service.fleet.DeleteUser"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Users().With(tx).Delete(ctx, id); err != nil {
			return translate(op, err, ErrUserNotFound)
		}

		return s.log(ctx, tx, adminID, "delete", "user", id.String(), nil)
	})
}

func (s *Service) log(
	ctx context.Context,
	tx postgresrepo.DB,
	adminID uuid.UUID,
	action, entity, entityID string,
	detail map[string]any,
) error {
	return s.store.Admins().With(tx).InsertLog(ctx, &domain.AdminLog{
		AdminID:  adminID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	})
}

func translate(op string, err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, notFound)
	}

	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}

	return fmt.Errorf("%s: %w", op, err)
}
