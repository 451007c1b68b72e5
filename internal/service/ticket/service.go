// Package ticket renders booking e-tickets as PDF.
package ticket

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/veytrix/busgo/internal/domain"
)

// BookingSource is satisfied by the booking service.
type BookingSource interface {
	Lookup(ctx context.Context, bookingID string) (*domain.Booking, error)
}

type Service struct {
	bookings BookingSource
}

func New(bookings BookingSource) *Service {
	return &Service{bookings: bookings}
}

// ETicket renders the e-ticket for a booking and returns the PDF bytes
// plus a suggested file name.
func (s *Service) ETicket(ctx context.Context, bookingID string) ([]byte, string, error) {
	const op = "service.ticket.ETicket"

	b, err := s.bookings.Lookup(ctx, bookingID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	pdf, err := buildETicket(b)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return pdf, fmt.Sprintf("eticket-%s.pdf", b.BookingID), nil
}

func buildETicket(b *domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Bus E-Ticket", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Booking ID: %s", b.BookingID), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	row("Operator", b.Trip.Operator)
	row("Bus", fmt.Sprintf("%s (%s)", b.Trip.BusNumber, b.Trip.BusType))
	row("Route", fmt.Sprintf("%s - %s", b.Trip.RouteFrom, b.Trip.RouteTo))
	row("Date", b.Trip.DepartDate)
	row("Departure", b.Trip.DepartTime)
	row("Arrival", b.Trip.ArriveTime)
	row("Duration", b.Trip.Duration)
	row("Seats", strings.Join(b.SeatNames, ", "))
	row("Boarding", pointLine(b.Boarding))
	row("Dropping", pointLine(b.Dropping))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Passengers", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range b.Passengers {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s, %d (%s)", p.Name, p.Age, p.Gender), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	row("Payment", b.Payment.Method)
	row("Amount", fmt.Sprintf("%.2f", float64(b.Payment.AmountCents)/100))
	row("Status", string(b.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func pointLine(p domain.StopPoint) string {
	out := p.Name
	if p.Time != "" {
		out += " at " + p.Time
	}
	return out
}
