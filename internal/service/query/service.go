// Package query serves the admin console's read screens. Hot reads (bus
// summary, seat map, overview) go through the redis cache; list reads
// filter at the query layer instead of fetching whole collections.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	redisx "github.com/veytrix/busgo/internal/redis"
)

type Config struct {
	BusSummaryTTL   time.Duration
	SeatMapTTL      time.Duration
	OverviewTTL     time.Duration
	DefaultListPage int
	MaxListPage     int
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.BusSummaryTTL <= 0 {
		cfg.BusSummaryTTL = 60 * time.Second
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 15 * time.Second
	}

	if cfg.OverviewTTL <= 0 {
		cfg.OverviewTTL = 30 * time.Second
	}

	if cfg.DefaultListPage <= 0 {
		cfg.DefaultListPage = 50
	}

	if cfg.MaxListPage <= 0 || cfg.MaxListPage < cfg.DefaultListPage {
		cfg.MaxListPage = 200
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetBus retrieves a bus through the summary cache.
//
// Returns query.ErrBusNotFound when the bus does not exist.
func (s *Service) GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	const op = "service.query.GetBus"

	key := redisx.KeyBusSummary(id.String())

	bus, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.BusSummaryTTL,
		func(ctx context.Context) (domain.Bus, error) {
			b, err := s.store.Buses().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Bus{}, ErrBusNotFound
				}

				return domain.Bus{}, err
			}

			return *b, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrBusNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBusNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &bus, nil
}

// SeatMap is the seat-selection view: the layout plus the counter.
type SeatMap struct {
	BusID          uuid.UUID
	SeatLayout     domain.SeatLayout
	AvailableSeats int
	UpdatedAt      time.Time
}

// GetSeatMap retrieves a bus's seat layout, short-TTL cached: stale maps
// only cost a failed completion attempt, never an inconsistent write.
func (s *Service) GetSeatMap(ctx context.Context, id uuid.UUID) (*SeatMap, error) {
	const op = "service.query.GetSeatMap"

	key := redisx.KeyBusSeatMap(id.String())

	sm, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SeatMapTTL,
		func(ctx context.Context) (SeatMap, error) {
			b, err := s.store.Buses().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return SeatMap{}, ErrBusNotFound
				}

				return SeatMap{}, err
			}

			return SeatMap{
				BusID:          b.ID,
				SeatLayout:     b.SeatLayout,
				AvailableSeats: b.AvailableSeats,
				UpdatedAt:      b.UpdatedAt,
			}, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrBusNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBusNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sm, nil
}

func (s *Service) ListBuses(ctx context.Context, f postgresrepo.BusFilter) ([]domain.Bus, error) {
	const op = "service.query.ListBuses"

	f.Limit, f.Offset = s.page(f.Limit, f.Offset)

	out, err := s.store.Buses().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListOperators(ctx context.Context, status string, limit, offset int) ([]domain.Operator, error) {
	const op = "service.query.ListOperators"

	limit, offset = s.page(limit, offset)

	out, err := s.store.Operators().List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListRoutes(ctx context.Context, origin, destination string, limit, offset int) ([]domain.Route, error) {
	const op = "service.query.ListRoutes"

	limit, offset = s.page(limit, offset)

	out, err := s.store.Routes().List(ctx, origin, destination, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListUsers(ctx context.Context, search string, limit, offset int) ([]domain.User, error) {
	const op = "service.query.ListUsers"

	limit, offset = s.page(limit, offset)

	out, err := s.store.Users().List(ctx, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListAdminLogs(ctx context.Context, adminID *uuid.UUID, limit, offset int) ([]domain.AdminLog, error) {
	const op = "service.query.ListAdminLogs"

	limit, offset = s.page(limit, offset)

	out, err := s.store.Admins().ListLogs(ctx, adminID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Overview gathers the dashboard counters. The four reads are
// independent, so they fan out concurrently and the result is assembled
// once all of them return.
func (s *Service) Overview(ctx context.Context) (*domain.OverviewCounts, error) {
	const op = "service.query.Overview"

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyOverview(),
		s.cfg.OverviewTTL,
		func(ctx context.Context) (domain.OverviewCounts, error) {
			var out domain.OverviewCounts

			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				n, err := s.store.Buses().Count(gCtx)
				out.Buses = n
				return err
			})

			g.Go(func() error {
				n, err := s.store.Operators().Count(gCtx)
				out.Operators = n
				return err
			})

			g.Go(func() error {
				n, err := s.store.Users().Count(gCtx)
				out.Users = n
				return err
			})

			g.Go(func() error {
				m, err := s.store.Bookings().CountByStatus(gCtx)
				out.BookingsByStatus = m
				return err
			})

			if err := g.Wait(); err != nil {
				return domain.OverviewCounts{}, err
			}

			return out, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}

func (s *Service) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultListPage
	}

	if limit > s.cfg.MaxListPage {
		limit = s.cfg.MaxListPage
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
