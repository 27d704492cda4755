package repository

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrListingNotFound   = errors.New("listing not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPaymentNotFound   = errors.New("payment record not found")
	ErrInvalidAmount     = errors.New("amount must be a positive value")

	// ErrPaymentFinalized is returned when a status update targets a
	// payment that already reached a different terminal state.
	ErrPaymentFinalized = errors.New("payment already finalized")

	// ErrBookingNotCancellable is returned when a cancel targets a
	// booking outside PENDING/CONFIRMED.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
)
