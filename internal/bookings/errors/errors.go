package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrTripNotFound = errors.New("trip not found")

	ErrPaymentNotFound = errors.New("payment not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged is returned by conditional status updates when the
	// booking exists but its status no longer matches the expected value,
	// meaning a concurrent transition won the race.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
