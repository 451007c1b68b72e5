package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadSeatRef     = errors.New("malformed seat reference")
	ErrSeatOutOfRange = errors.New("seat out of range")
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Bus struct {
	ID             uuid.UUID
	OperatorID     uuid.UUID
	Number         string
	BusType        string
	RouteFrom      string
	RouteTo        string
	DepartDate     time.Time
	DepartTime     string
	ArriveTime     string
	Duration       string
	FareCents      int
	SeatLayout     SeatLayout
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TripSnapshot is the bus trip detail captured on a booking at creation
// time, so the booking stays readable even if the bus record changes.
type TripSnapshot struct {
	Operator   string `json:"operator"`
	BusNumber  string `json:"bus_number"`
	BusType    string `json:"bus_type"`
	RouteFrom  string `json:"route_from"`
	RouteTo    string `json:"route_to"`
	DepartDate string `json:"depart_date"`
	DepartTime string `json:"depart_time"`
	ArriveTime string `json:"arrive_time"`
	Duration   string `json:"duration"`
}

type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StopPoint is a boarding or dropping point snapshot.
type StopPoint struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Time    string `json:"time"`
}

type PaymentInfo struct {
	Method        string `json:"method"`
	AmountCents   int    `json:"amount_cents"`
	TransactionID string `json:"transaction_id"`
}

type Booking struct {
	ID            uuid.UUID
	BookingID     string
	BusID         uuid.UUID
	Trip          TripSnapshot
	SelectedSeats []string
	SeatNames     []string
	Passengers    []Passenger
	Contact       Contact
	Boarding      StopPoint
	Dropping      StopPoint
	Payment       PaymentInfo
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Operator struct {
	ID           uuid.UUID
	Name         string
	ContactEmail string
	Phone        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Route struct {
	ID          uuid.UUID
	Origin      string
	Destination string
	DistanceKm  int
	Duration    string
	Stops       []StopPoint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"`
	Name         string
	Role         string
	CreatedAt    time.Time
}

type AdminLog struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	Action    string
	Entity    string
	EntityID  string
	Detail    map[string]any
	CreatedAt time.Time
}

// OverviewCounts is the gather-all dashboard snapshot.
type OverviewCounts struct {
	Buses            int64
	Operators        int64
	Users            int64
	BookingsByStatus map[BookingStatus]int64
}
