package errors

import "errors"

var (
	ErrNotFound  = errors.New("decorator not found")
	ErrDuplicate = errors.New("decorator already applied")
	ErrInvalidID = errors.New("invalid decorator id")
)
