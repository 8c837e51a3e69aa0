package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("no items available")
	ErrAlreadyReturned = errors.New("lending already returned")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPersistence     = errors.New("persistence failure")
)
