package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDuplicateContent      = errors.New("duplicate content")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
