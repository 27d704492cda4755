package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
)

type CreateBookingInput struct {
	ListingSlug string
	StartDate   time.Time
	EndDate     time.Time
}

type BookingService interface {
	Create(ctx context.Context, guestID int64, input CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, guestID, id int64) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, guestID, id int64) (*domain.Booking, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	listings repository.ListingRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewBookingService(bookings repository.BookingRepository, listings repository.ListingRepository, logger *zap.Logger) BookingService {
	return &bookingService{
		bookings: bookings,
		listings: listings,
		logger:   logger,
		tracer:   otel.Tracer("service/booking_service"),
	}
}

// Create places a PENDING booking; the total is nights times the
// listing's nightly price at booking time.
func (s *bookingService) Create(ctx context.Context, guestID int64, input CreateBookingInput) (*domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Create")
	defer span.End()

	span.SetAttributes(attribute.String("listing_slug", input.ListingSlug))

	if !input.EndDate.After(input.StartDate) {
		return nil, ErrInvalidDates
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate.Before(today) {
		return nil, ErrDatesInPast
	}

	listing, err := s.listings.GetBySlug(ctx, input.ListingSlug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, fmt.Errorf("error loading listing: %w", err)
	}

	booking := &domain.Booking{
		ListingID: listing.ID,
		GuestID:   guestID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    domain.BookingStatusPending,
	}
	booking.TotalPrice = float64(booking.Nights()) * listing.PricePerNight

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("error creating booking: %w", err)
	}

	applog.Info(ctx, s.logger, "Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("listing_id", listing.ID),
	)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, guestID, id int64) (*domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.GetByID")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}

		return nil, fmt.Errorf("error loading booking: %w", err)
	}

	if booking.GuestID != guestID {
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

func (s *bookingService) ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListByGuest")
	defer span.End()

	bookings, err := s.bookings.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}

	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, guestID, id int64) (*domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Cancel")
	defer span.End()

	span.SetAttributes(attribute.Int64("booking_id", id))

	booking, err := s.bookings.Cancel(ctx, id, guestID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrBookingNotCancellable):
			if booking != nil {
				return nil, fmt.Errorf("%w: booking is %s", ErrBookingNotCancellable, booking.Status)
			}
			return nil, ErrBookingNotCancellable
		}

		return nil, fmt.Errorf("error cancelling booking: %w", err)
	}

	applog.Info(ctx, s.logger, "Booking cancelled", zap.Int64("booking_id", id))

	return booking, nil
}
