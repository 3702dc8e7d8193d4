package errors

import "errors"

var (
	ErrNotFound  = errors.New("service not found")
	ErrInvalidID = errors.New("invalid service id")
)
