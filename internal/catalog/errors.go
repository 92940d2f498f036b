// Package catalog implements the in-memory dish registry. This file
// centralizes the catalog's error values so they can be consistently
// returned by mutating operations and checked by callers with errors.Is.
//
// Translation into user-facing messages is the embedding application's
// concern; the library only reports what went wrong.
package catalog

import "errors"

var (
	// ErrEmptyName is returned when a dish is added or renamed with a
	// blank name.
	ErrEmptyName = errors.New("dish name is empty")

	// ErrInvalidPrice is returned when a dish price is zero or negative.
	ErrInvalidPrice = errors.New("dish price must be positive")

	// ErrDishNotFound indicates that the requested dish id does not
	// exist in the catalog.
	ErrDishNotFound = errors.New("dish not found")
)
