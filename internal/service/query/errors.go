package query

import "errors"

var (
	ErrBusNotFound      = errors.New("bus not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrUserNotFound     = errors.New("user not found")
)
