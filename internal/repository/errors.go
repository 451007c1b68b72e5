package repository

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBusNotFound  = errors.New("bus not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
