package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, id, guestID int64) (*domain.Booking, error)
	Confirm(ctx context.Context, tx pgx.Tx, id int64) error
}

type bookingRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewBookingRepository(pool *pgxpool.Pool, logger *zap.Logger) BookingRepository {
	return &bookingRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/booking_repo"),
	}
}

func (r *bookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("listing_id", booking.ListingID),
		attribute.Int64("guest_id", booking.GuestID),
	)

	query := `
		INSERT INTO bookings (listing_id, guest_id, start_date, end_date, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		booking.ListingID,
		booking.GuestID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalPrice,
		booking.Status,
	).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Create booking failed", zap.Error(err))

		return fmt.Errorf("error creating booking: %w", err)
	}

	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", id),
	)

	query := `
		SELECT id, listing_id, guest_id, start_date, end_date, total_price, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ListingID,
		&booking.GuestID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}

		span.RecordError(err)

		applog.Error(ctx, r.logger, "GetByID failed", zap.Error(err))

		return nil, fmt.Errorf("error getting booking by id: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepo) ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.ListByGuest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("guest_id", guestID),
	)

	query := `
		SELECT id, listing_id, guest_id, start_date, end_date, total_price, status, created_at, updated_at
		FROM bookings
		WHERE guest_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, guestID)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID,
			&b.ListingID,
			&b.GuestID,
			&b.StartDate,
			&b.EndDate,
			&b.TotalPrice,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning booking: %w", err)
		}

		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// Cancel moves the guest's booking to CANCELLED only from a cancellable
// state; the status condition doubles as the ownership check guard.
func (r *bookingRepo) Cancel(ctx context.Context, id, guestID int64) (*domain.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.Cancel")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", id),
	)

	query := `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND guest_id = $2 AND status IN ('PENDING', 'CONFIRMED')
		RETURNING id, listing_id, guest_id, start_date, end_date, total_price, status, created_at, updated_at
	`

	var booking domain.Booking
	err := r.pool.QueryRow(ctx, query, id, guestID).Scan(
		&booking.ID,
		&booking.ListingID,
		&booking.GuestID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err == nil {
		return &booking, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)

		return nil, fmt.Errorf("error cancelling booking: %w", err)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.GuestID != guestID {
		return nil, ErrBookingNotFound
	}

	applog.Warn(
		ctx,
		r.logger,
		"Booking not cancellable",
		zap.Int64("booking_id", id),
		zap.String("status", string(current.Status)),
	)

	return current, ErrBookingNotCancellable
}

// Confirm is invoked inside the payment-verification transaction when a
// payment completes.
func (r *bookingRepo) Confirm(ctx context.Context, tx pgx.Tx, id int64) error {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.Confirm")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", id),
	)

	query := `
		UPDATE bookings
		SET status = 'CONFIRMED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Confirm booking failed", zap.Error(err))

		return fmt.Errorf("error confirming booking: %w", err)
	}

	return nil
}
