package service

import "errors"

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidDates    = errors.New("end date must be after start date")
	ErrDatesInPast     = errors.New("start date must not be in the past")

	ErrBookingNotFound       = errors.New("invalid booking reference ID")
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")

	ErrPaymentNotFound = errors.New("payment record not found")
	ErrInvalidAmount   = errors.New("amount must be a positive number")

	// ErrPaymentInitFailed means the provider answered but refused the
	// checkout; the payment record was cancelled.
	ErrPaymentInitFailed = errors.New("payment initialization rejected by provider")

	// ErrUpstreamUnavailable means the provider could not be reached at
	// all; the payment record was cancelled.
	ErrUpstreamUnavailable = errors.New("payment provider unavailable")

	// ErrVerificationUnavailable means a verification attempt could not
	// reach a conclusion; the payment record was left untouched.
	ErrVerificationUnavailable = errors.New("payment verification temporarily unavailable")
)
