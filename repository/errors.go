package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStaleTransition is returned when a conditional status update matched
	// no rows because the order already left the expected status. Callers on
	// the webhook path treat this as "already handled".
	ErrStaleTransition = errors.New("order status already changed")
)
