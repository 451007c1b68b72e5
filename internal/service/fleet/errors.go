package fleet

import "errors"

var (
	ErrBusNotFound      = errors.New("bus not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrEmptySeatLayout  = errors.New("seat layout has no seats")
)
