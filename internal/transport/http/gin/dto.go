package httpgin

import (
	"time"

	"github.com/veytrix/busgo/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error" example:"bus not found"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type PassengerInput struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,gt=0"`
	Gender string `json:"gender" binding:"required"`
}

type ContactInput struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type StopPointInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Time    string `json:"time"`
}

// CompleteBookingRequest arrives after payment confirmation; seats are
// addressed as "deck-row-col" references into the bus seat layout.
type CompleteBookingRequest struct {
	BusID         string           `json:"bus_id" binding:"required,uuid"`
	BookingID     string           `json:"booking_id" binding:"required"`
	SelectedSeats []string         `json:"selected_seats" binding:"required,min=1,dive,required"`
	Passengers    []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
	Contact       ContactInput     `json:"contact" binding:"required"`
	Boarding      StopPointInput   `json:"boarding"`
	Dropping      StopPointInput   `json:"dropping"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	AmountCents   int              `json:"amount_cents" binding:"required,gt=0"`
	TransactionID string           `json:"transaction_id"`
}

type CompleteBookingResponse struct {
	BookingID    string `json:"booking_id"`
	DocumentID   string `json:"document_id"`
	SeatsUpdated int    `json:"seats_updated"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled completed"`
}

type BusRequest struct {
	OperatorID string            `json:"operator_id" binding:"required,uuid"`
	Number     string            `json:"number" binding:"required"`
	BusType    string            `json:"bus_type" binding:"required"`
	RouteFrom  string            `json:"route_from" binding:"required"`
	RouteTo    string            `json:"route_to" binding:"required"`
	DepartDate string            `json:"depart_date" binding:"required"`
	DepartTime string            `json:"depart_time" binding:"required"`
	ArriveTime string            `json:"arrive_time" binding:"required"`
	Duration   string            `json:"duration"`
	FareCents  int               `json:"fare_cents" binding:"required,gt=0"`
	SeatLayout domain.SeatLayout `json:"seat_layout" binding:"required"`
}

type OperatorRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Status       string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type RouteRequest struct {
	Origin      string           `json:"origin" binding:"required"`
	Destination string           `json:"destination" binding:"required"`
	DistanceKm  int              `json:"distance_km"`
	Duration    string           `json:"duration"`
	Stops       []StopPointInput `json:"stops" binding:"dive"`
}

type UserRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone"`
	Status string `json:"status" binding:"omitempty,oneof=active blocked"`
}

type CreateResponse struct {
	ID string `json:"id"`
}

type StatusResponse struct {
	Status string `json:"status" example:"updated"`
}

type SeatMapResponse struct {
	BusID          string            `json:"bus_id"`
	SeatLayout     domain.SeatLayout `json:"seat_layout"`
	AvailableSeats int               `json:"available_seats"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
