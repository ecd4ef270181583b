package core

import "errors"

// Error kinds surfaced to callers. Handlers match these with errors.Is to
// pick a status code and message; everything else is treated as internal.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrLastCategory      = errors.New("cannot remove the last category")
	ErrNotFound          = errors.New("not found")
	ErrFormat            = errors.New("invalid format")
	ErrSchema            = errors.New("invalid schema")
	ErrBackend           = errors.New("backend failure")
)
