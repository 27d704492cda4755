package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
)

// statusFromErr maps service errors onto HTTP status codes. The second
// return reports whether the error was recognized; unrecognized errors
// are internal and their text must not leak to clients.
func statusFromErr(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrDatesInPast),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrPaymentInitFailed):
		return fiber.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrUserAlreadyExists):
		return fiber.StatusConflict, true
	case errors.Is(err, service.ErrUpstreamUnavailable),
		errors.Is(err, service.ErrVerificationUnavailable):
		// Provider connectivity failures surface as 500 with the
		// sentinel's message; the caller can tell them from rejections.
		return fiber.StatusInternalServerError, true
	}

	return fiber.StatusInternalServerError, false
}

func respondErr(c *fiber.Ctx, err error) error {
	status, known := statusFromErr(err)
	message := err.Error()
	if !known {
		message = "Internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
