package ticket

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/veytrix/busgo/internal/domain"
)

type fakeSource struct {
	booking *domain.Booking
	err     error
}

func (f fakeSource) Lookup(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func TestETicket(t *testing.T) {
	b := &domain.Booking{
		BookingID:     "BK777",
		SelectedSeats: []string{"lower-0-0", "lower-0-1"},
		SeatNames:     []string{"A1", "A2"},
		Trip: domain.TripSnapshot{
			Operator:   "Sunrise Travels",
			BusNumber:  "KA-1204",
			BusType:    "sleeper",
			RouteFrom:  "Bangalore",
			RouteTo:    "Hyderabad",
			DepartDate: "2026-09-14",
			DepartTime: "21:30",
			ArriveTime: "06:15",
			Duration:   "8h45m",
		},
		Passengers: []domain.Passenger{{Name: "Asha Rao", Age: 31, Gender: "F"}},
		Payment:    domain.PaymentInfo{Method: "upi", AmountCents: 189900},
		Status:     domain.BookingConfirmed,
	}

	svc := New(fakeSource{booking: b})

	pdf, name, err := svc.ETicket(context.Background(), "BK777")
	if err != nil {
		t.Fatalf("eticket: %v", err)
	}
	if name != "eticket-BK777.pdf" {
		t.Fatalf("file name = %q", name)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", pdf[:min(8, len(pdf))])
	}
}

func TestETicketLookupError(t *testing.T) {
	want := errors.New("nope")
	svc := New(fakeSource{err: want})

	if _, _, err := svc.ETicket(context.Background(), "BK1"); !errors.Is(err, want) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
