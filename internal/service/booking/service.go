package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	redisx "github.com/veytrix/busgo/internal/redis"
	"github.com/veytrix/busgo/internal/uow"
)

type Config struct {
	DefaultListPage int
	MaxListPage     int
}

type Service struct {
	inv     Inventory
	ledger  Ledger
	runner  TxRunner
	cache   *redisrepo.Cache
	pubsub  *redisx.BusPubSub
	limiter *redisrepo.SlidingWindowLimiter
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.BusPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	return newService(
		pgInventory{store: store},
		pgLedger{store: store},
		uow.New(store),
		cache,
		pubsub,
		limiter,
		cfg,
	)
}

func newService(
	inv Inventory,
	ledger Ledger,
	runner TxRunner,
	cache *redisrepo.Cache,
	pubsub *redisx.BusPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.DefaultListPage <= 0 {
		cfg.DefaultListPage = 50
	}

	if cfg.MaxListPage <= 0 || cfg.MaxListPage < cfg.DefaultListPage {
		cfg.MaxListPage = 200
	}

	return &Service{
		inv:     inv,
		ledger:  ledger,
		runner:  runner,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		cfg:     cfg,
	}
}

// CompleteParams is a priced, seat-selected, payment-confirmed request.
type CompleteParams struct {
	BusID         uuid.UUID
	BookingID     string
	SelectedSeats []string
	Passengers    []domain.Passenger
	Contact       domain.Contact
	Boarding      domain.StopPoint
	Dropping      domain.StopPoint
	PaymentMethod string
	AmountCents   int
	TransactionID string
}

type CompleteResult struct {
	BookingID    string
	DocumentID   uuid.UUID
	SeatsUpdated int
}

// Complete converts the request into a durable booking while keeping the
// bus seat inventory accurate. Three effects commit as one unit: the
// chosen cells flip to booked in the seat layout, the available-seat
// counter drops by the number of selected seats (floored at zero), and
// the booking record is inserted. The bus row is read, recomputed and
// written back inside a single serializable transaction, so concurrent
// completions against the same bus serialize instead of losing updates.
//
// Seat cells are overwritten, not compare-and-swapped: a cell that is
// already booked is booked again silently. Upstream seat selection is
// trusted on this point.
//
// Returns:
//   - booking.ErrBusNotFound if the bus does not exist (zero writes).
//   - booking.ErrBadSeatSelection if a seat reference cannot be parsed or
//     falls outside the layout (transaction rolls back).
//   - booking.ErrConflict on store-level conflicts; the caller re-initiates,
//     there is no retry loop here.
func (s *Service) Complete(ctx context.Context, p CompleteParams, rlKey string) (*CompleteResult, error) {
	const op = "service.booking.Complete"

	if len(p.SelectedSeats) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSeatsSelected)
	}

	if p.BookingID == "" {
		return nil, fmt.Errorf("%s: missing booking id", op)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	var res CompleteResult

	err := s.runner.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		bus, err := s.inv.GetBusForUpdate(ctx, tx, p.BusID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrBusNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		layout := bus.SeatLayout
		seatNames := make([]string, 0, len(p.SelectedSeats))

		for _, sid := range p.SelectedSeats {
			ref, err := domain.ParseSeatRef(sid)
			if err != nil {
				return fmt.Errorf("%s: %w: %w", op, ErrBadSeatSelection, err)
			}

			if err := layout.Set(ref, domain.SeatBooked); err != nil {
				return fmt.Errorf("%s: %w: %w", op, ErrBadSeatSelection, err)
			}

			seatNames = append(seatNames, ref.Label())
		}

		available := bus.AvailableSeats - len(p.SelectedSeats)
		if available < 0 {
			available = 0
		}

		now := time.Now().UTC()

		if err := s.inv.UpdateSeatInventory(ctx, tx, bus.ID, layout, available, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		operator, err := s.inv.OperatorName(ctx, tx, bus.OperatorID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		rec := &domain.Booking{
			BookingID:     p.BookingID,
			BusID:         bus.ID,
			Trip:          tripSnapshot(bus, operator),
			SelectedSeats: p.SelectedSeats,
			SeatNames:     seatNames,
			Passengers:    p.Passengers,
			Contact:       p.Contact,
			Boarding:      p.Boarding,
			Dropping:      p.Dropping,
			Payment: domain.PaymentInfo{
				Method:        p.PaymentMethod,
				AmountCents:   p.AmountCents,
				TransactionID: p.TransactionID,
			},
			Status:    domain.BookingConfirmed,
			CreatedAt: now,
			UpdatedAt: now,
		}

		docID, err := s.ledger.Insert(ctx, tx, rec)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		res = CompleteResult{
			BookingID:    p.BookingID,
			DocumentID:   docID,
			SeatsUpdated: len(p.SelectedSeats),
		}

		busID := bus.ID.String()
		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateBus(ctx, busID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishBusChanged(ctx, busID)
			}
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) || postgresrepo.IsRetryable(err) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		}

		return nil, err
	}

	return &res, nil
}

// Lookup retrieves a booking by its human-facing id.
//
// Returns booking.ErrBookingNotFound when no booking matches.
func (s *Service) Lookup(ctx context.Context, bookingID string) (*domain.Booking, error) {
	const op = "service.booking.Lookup"

	b, err := s.ledger.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// List retrieves bookings filtered at the query layer.
func (s *Service) List(ctx context.Context, f postgresrepo.BookingFilter) ([]domain.Booking, error) {
	const op = "service.booking.List"

	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultListPage
	}

	if f.Limit > s.cfg.MaxListPage {
		f.Limit = s.cfg.MaxListPage
	}

	out, err := s.ledger.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateStatus transitions a booking's status.
//
// Returns booking.ErrBookingNotFound when no booking matches.
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	const op = "service.booking.UpdateStatus"

	err := s.runner.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if err := s.ledger.UpdateStatus(ctx, tx, bookingID, status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	return err
}

func tripSnapshot(bus *domain.Bus, operator string) domain.TripSnapshot {
	return domain.TripSnapshot{
		Operator:   operator,
		BusNumber:  bus.Number,
		BusType:    bus.BusType,
		RouteFrom:  bus.RouteFrom,
		RouteTo:    bus.RouteTo,
		DepartDate: bus.DepartDate.Format("2006-01-02"),
		DepartTime: bus.DepartTime,
		ArriveTime: bus.ArriveTime,
		Duration:   bus.Duration,
	}
}
