package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrDuplicate = errors.New("user already exists")

	ErrInvalidID = errors.New("invalid user ID format")
)
