package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	"github.com/veytrix/busgo/internal/uow"
)

// The completion transaction touches exactly two documents: the bus row
// (seat map + counter) and the new booking row. These interfaces carry
// that contract so the transaction logic can be exercised against an
// in-memory store.

type Inventory interface {
	GetBusForUpdate(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (*domain.Bus, error)
	UpdateSeatInventory(ctx context.Context, tx postgresrepo.DB, id uuid.UUID, layout domain.SeatLayout, availableSeats int, updatedAt time.Time) error
	OperatorName(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (string, error)
}

type Ledger interface {
	Insert(ctx context.Context, tx postgresrepo.DB, b *domain.Booking) (uuid.UUID, error)
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	List(ctx context.Context, f postgresrepo.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, tx postgresrepo.DB, bookingID string, status domain.BookingStatus) error
}

type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error) error
}

type pgInventory struct {
	store *postgresrepo.Store
}

func (a pgInventory) GetBusForUpdate(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (*domain.Bus, error) {
	return a.store.Buses().With(tx).GetForUpdate(ctx, id)
}

func (a pgInventory) UpdateSeatInventory(
	ctx context.Context,
	tx postgresrepo.DB,
	id uuid.UUID,
	layout domain.SeatLayout,
	availableSeats int,
	updatedAt time.Time,
) error {
	return a.store.Buses().With(tx).UpdateSeatInventory(ctx, id, layout, availableSeats, updatedAt)
}

func (a pgInventory) OperatorName(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (string, error) {
	o, err := a.store.Operators().With(tx).Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return o.Name, nil
}

type pgLedger struct {
	store *postgresrepo.Store
}

func (a pgLedger) Insert(ctx context.Context, tx postgresrepo.DB, b *domain.Booking) (uuid.UUID, error) {
	return a.store.Bookings().With(tx).Insert(ctx, b)
}

func (a pgLedger) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return a.store.Bookings().GetByBookingID(ctx, bookingID)
}

func (a pgLedger) List(ctx context.Context, f postgresrepo.BookingFilter) ([]domain.Booking, error) {
	return a.store.Bookings().List(ctx, f)
}

func (a pgLedger) UpdateStatus(ctx context.Context, tx postgresrepo.DB, bookingID string, status domain.BookingStatus) error {
	return a.store.Bookings().With(tx).UpdateStatus(ctx, bookingID, status)
}
