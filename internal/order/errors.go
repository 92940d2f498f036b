// Package order manages the active table's per-person orders. This
// file centralizes the session's error values so mutating operations
// return them consistently and callers can check with errors.Is.
package order

import "errors"

var (
	// ErrPersonNotFound indicates that an operation referenced a person
	// who has not been added to the session.
	ErrPersonNotFound = errors.New("person not found in session")

	// ErrInvalidQuantity is returned when a line item is added or
	// updated with a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidPaymentMethod is returned when a payment selection is
	// outside the four defined modes, or when a ratio/fixed selection
	// carries a non-positive value.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrItemIndex is returned when a line-item index is out of range
	// for the person's order.
	ErrItemIndex = errors.New("order item index out of range")

	// ErrEmptySession is returned by Finalize when the session has no
	// participants to snapshot.
	ErrEmptySession = errors.New("session has no orders")
)
