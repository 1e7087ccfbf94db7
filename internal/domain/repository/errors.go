package repository

import "errors"

// Errors returned by every repository implementation.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
