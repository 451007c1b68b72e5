package booking

import "errors"

var (
	ErrBusNotFound      = errors.New("bus not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNoSeatsSelected  = errors.New("no seats selected")
	ErrBadSeatSelection = errors.New("invalid seat selection")
	ErrConflict         = errors.New("booking conflict")
	ErrRateLimited      = errors.New("rate limited")
)
