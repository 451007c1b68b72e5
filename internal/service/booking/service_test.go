package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	"github.com/veytrix/busgo/internal/uow"
)

// fakeStore implements Inventory, Ledger and TxRunner in memory. Do
// snapshots all state before running fn and restores it when fn fails,
// mirroring the rollback the real transaction provides.
type fakeStore struct {
	buses     map[uuid.UUID]*domain.Bus
	bookings  []domain.Booking
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{buses: make(map[uuid.UUID]*domain.Bus)}
}

func (f *fakeStore) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error,
) error {
	snapBuses := make(map[uuid.UUID]*domain.Bus, len(f.buses))
	for id, b := range f.buses {
		cp := *b
		cp.SeatLayout = b.SeatLayout.Clone()
		snapBuses[id] = &cp
	}
	snapBookings := append([]domain.Booking(nil), f.bookings...)

	var hooks []uow.AfterCommit
	err := fn(ctx, nil, func(h uow.AfterCommit) { hooks = append(hooks, h) })
	if err != nil {
		f.buses = snapBuses
		f.bookings = snapBookings
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}

func (f *fakeStore) GetBusForUpdate(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (*domain.Bus, error) {
	b, ok := f.buses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	cp.SeatLayout = b.SeatLayout.Clone()
	return &cp, nil
}

func (f *fakeStore) UpdateSeatInventory(
	ctx context.Context,
	tx postgresrepo.DB,
	id uuid.UUID,
	layout domain.SeatLayout,
	availableSeats int,
	updatedAt time.Time,
) error {
	b, ok := f.buses[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.SeatLayout = layout
	b.AvailableSeats = availableSeats
	b.UpdatedAt = updatedAt
	return nil
}

func (f *fakeStore) OperatorName(ctx context.Context, tx postgresrepo.DB, id uuid.UUID) (string, error) {
	return "Sunrise Travels", nil
}

func (f *fakeStore) Insert(ctx context.Context, tx postgresrepo.DB, b *domain.Booking) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	rec := *b
	rec.ID = uuid.New()
	f.bookings = append(f.bookings, rec)
	return rec.ID, nil
}

func (f *fakeStore) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].BookingID == bookingID {
			cp := f.bookings[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, _ postgresrepo.BookingFilter) ([]domain.Booking, error) {
	return append([]domain.Booking(nil), f.bookings...), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, tx postgresrepo.DB, bookingID string, status domain.BookingStatus) error {
	for i := range f.bookings {
		if f.bookings[i].BookingID == bookingID {
			f.bookings[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func newTestService(f *fakeStore) *Service {
	return newService(f, f, f, nil, nil, nil, Config{})
}

func seedBus(f *fakeStore) *domain.Bus {
	bus := &domain.Bus{
		ID:         uuid.New(),
		OperatorID: uuid.New(),
		Number:     "KA-1204",
		BusType:    "sleeper",
		RouteFrom:  "Bangalore",
		RouteTo:    "Hyderabad",
		DepartDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		DepartTime: "21:30",
		ArriveTime: "06:15",
		Duration:   "8h45m",
		SeatLayout: domain.SeatLayout{
			"lower": {
				{domain.SeatAvailable, domain.SeatAvailable, domain.SeatNone},
				{domain.SeatAvailable, domain.SeatBooked, domain.SeatAvailable},
			},
		},
	}
	bus.AvailableSeats = bus.SeatLayout.CountAvailable()
	f.buses[bus.ID] = bus
	return bus
}

func completeParams(busID uuid.UUID, bookingID string, seats ...string) CompleteParams {
	return CompleteParams{
		BusID:         busID,
		BookingID:     bookingID,
		SelectedSeats: seats,
		Passengers:    []domain.Passenger{{Name: "Asha Rao", Age: 31, Gender: "F"}},
		Contact:       domain.Contact{Email: "asha@example.com", Phone: "+91-98450-11223"},
		Boarding:      domain.StopPoint{Name: "Majestic", Time: "21:30"},
		Dropping:      domain.StopPoint{Name: "MGBS", Time: "06:15"},
		PaymentMethod: "upi",
		AmountCents:   189900,
		TransactionID: "TXN-7781",
	}
}

func TestCompleteBooking(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	svc := newTestService(f)

	res, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK1001", "lower-0-0", "lower-1-2"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BookingID != "BK1001" || res.SeatsUpdated != 2 || res.DocumentID == uuid.Nil {
		t.Fatalf("bad result: %+v", res)
	}

	got := f.buses[bus.ID]
	if got.SeatLayout["lower"][0][0] != domain.SeatBooked || got.SeatLayout["lower"][1][2] != domain.SeatBooked {
		t.Fatalf("seats not marked booked: %v", got.SeatLayout)
	}

	// counter invariant: available_seats equals the count of available cells
	if got.AvailableSeats != got.SeatLayout.CountAvailable() {
		t.Fatalf("available = %d, layout says %d", got.AvailableSeats, got.SeatLayout.CountAvailable())
	}

	b, err := f.GetByBookingID(context.Background(), "BK1001")
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if len(b.SeatNames) != len(b.SelectedSeats) {
		t.Fatalf("seat names not aligned with selected seats")
	}
	if b.SeatNames[0] != "A1" || b.SeatNames[1] != "B3" {
		t.Fatalf("seat names = %v", b.SeatNames)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("status = %q", b.Status)
	}
	if b.Trip.Operator != "Sunrise Travels" || b.Trip.DepartDate != "2026-09-14" {
		t.Fatalf("trip snapshot = %+v", b.Trip)
	}
}

func TestCompleteBookingBusNotFound(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	_, err := svc.Complete(context.Background(), completeParams(uuid.New(), "BK1", "lower-0-0"), "")
	if !errors.Is(err, ErrBusNotFound) {
		t.Fatalf("expected ErrBusNotFound, got %v", err)
	}
	if len(f.bookings) != 0 {
		t.Fatalf("booking persisted despite missing bus")
	}
}

func TestCompleteBookingAtomicOnInsertFailure(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	before := bus.SeatLayout.Clone()
	beforeAvail := bus.AvailableSeats
	f.insertErr = errors.New("insert blew up")
	svc := newTestService(f)

	_, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK2", "lower-0-0"), "")
	if err == nil {
		t.Fatalf("expected error")
	}

	got := f.buses[bus.ID]
	if !reflect.DeepEqual(got.SeatLayout, before) {
		t.Fatalf("seat layout changed despite rollback:\n got %v\nwant %v", got.SeatLayout, before)
	}
	if got.AvailableSeats != beforeAvail {
		t.Fatalf("available changed despite rollback: %d != %d", got.AvailableSeats, beforeAvail)
	}
	if len(f.bookings) != 0 {
		t.Fatalf("booking persisted despite failed transaction")
	}
}

func TestCompleteBookingMalformedSeatRollsBack(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	before := bus.SeatLayout.Clone()
	svc := newTestService(f)

	_, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK3", "lower-0-0", "lower-x-1"), "")
	if !errors.Is(err, ErrBadSeatSelection) {
		t.Fatalf("expected ErrBadSeatSelection, got %v", err)
	}
	if !reflect.DeepEqual(f.buses[bus.ID].SeatLayout, before) {
		t.Fatalf("seat layout changed despite malformed seat")
	}
	if len(f.bookings) != 0 {
		t.Fatalf("booking persisted despite malformed seat")
	}
}

func TestCompleteBookingClampsAvailable(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	// pretend the counter has drifted low; booking more seats than the
	// counter holds must floor it at zero, not go negative
	bus.AvailableSeats = 1
	svc := newTestService(f)

	_, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK4", "lower-0-0", "lower-0-1", "lower-1-0"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.buses[bus.ID].AvailableSeats; got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
}

func TestCompleteBookingNoSeats(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	svc := newTestService(f)

	_, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK5"), "")
	if !errors.Is(err, ErrNoSeatsSelected) {
		t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	svc := newTestService(f)

	if _, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK123", "lower-0-0"), ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	b, err := svc.Lookup(context.Background(), "BK123")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.BookingID != "BK123" {
		t.Fatalf("booking id = %q", b.BookingID)
	}
}

func TestLookupNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Lookup(context.Background(), "BK404")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFakeStore()
	bus := seedBus(f)
	svc := newTestService(f)

	if _, err := svc.Complete(context.Background(), completeParams(bus.ID, "BK9", "lower-0-0"), ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), "BK9", domain.BookingCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if f.bookings[0].Status != domain.BookingCompleted {
		t.Fatalf("status = %q", f.bookings[0].Status)
	}

	if err := svc.UpdateStatus(context.Background(), "BK404", domain.BookingCancelled); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
