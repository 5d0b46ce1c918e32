package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidElement = errors.New("invalid element")
	ErrEmptyContent   = errors.New("content cannot be empty")
)
