package errors

import "errors"

var (
	ErrNotFound    = errors.New("payment not found")
	ErrDuplicate   = errors.New("payment already recorded")
	ErrSessionGone = errors.New("checkout session not found")
)
