package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, bookingID int64, amount float64) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, transactionID string, status domain.PaymentStatus) (*domain.Payment, bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
}

type paymentRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewPaymentRepository(pool *pgxpool.Pool, logger *zap.Logger) PaymentRepository {
	return &paymentRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/payment_repo"),
	}
}

// Create allocates the transaction_id before any provider call; the
// record starts in PENDING.
func (r *paymentRepo) Create(ctx context.Context, bookingID int64, amount float64) (*domain.Payment, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.Create")
	defer span.End()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment := &domain.Payment{
		TransactionID: uuid.New().String(),
		BookingID:     bookingID,
		Amount:        amount,
		Status:        domain.PaymentStatusPending,
	}

	span.SetAttributes(
		attribute.String("transaction_id", payment.TransactionID),
		attribute.Int64("booking_id", bookingID),
	)

	query := `
		INSERT INTO payments (transaction_id, booking_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		payment.TransactionID,
		payment.BookingID,
		payment.Amount,
		payment.Status,
	).Scan(
		&payment.ID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Create payment failed", zap.Error(err))

		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	return payment, nil
}

// UpdateStatus applies a terminal transition with a compare-and-swap on
// status: only PENDING rows are updated, so COMPLETED can never be
// overwritten by a late or duplicate callback. The returned bool is true
// only when this call performed the transition. Re-applying the current
// terminal status is a no-op; switching between terminal states returns
// ErrPaymentFinalized.
func (r *paymentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, transactionID string, status domain.PaymentStatus) (*domain.Payment, bool, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("transaction_id", transactionID),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'PENDING'
		RETURNING id, transaction_id, booking_id, amount, status, created_at, updated_at
	`

	var payment domain.Payment
	err := tx.QueryRow(ctx, query, transactionID, status).Scan(
		&payment.ID,
		&payment.TransactionID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err == nil {
		return &payment, true, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "UpdateStatus failed", zap.Error(err))

		return nil, false, fmt.Errorf("error updating payment status: %w", err)
	}

	// The CAS matched nothing: either the record is absent or it
	// already reached a terminal state in a concurrent transaction.
	current, err := r.getByTransactionID(ctx, tx, transactionID)
	if err != nil {
		return nil, false, err
	}

	if current.Status == status {
		return current, false, nil
	}

	applog.Warn(
		ctx,
		r.logger,
		"Rejected status downgrade for finalized payment",
		zap.String("transaction_id", transactionID),
		zap.String("current", string(current.Status)),
		zap.String("requested", string(status)),
	)

	return current, false, ErrPaymentFinalized
}

func (r *paymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.GetByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("transaction_id", transactionID),
	)

	return r.getByTransactionID(ctx, r.pool, transactionID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *paymentRepo) getByTransactionID(ctx context.Context, q queryRower, transactionID string) (*domain.Payment, error) {
	query := `
		SELECT id, transaction_id, booking_id, amount, status, created_at, updated_at
		FROM payments
		WHERE transaction_id = $1
	`

	var payment domain.Payment
	if err := q.QueryRow(ctx, query, transactionID).Scan(
		&payment.ID,
		&payment.TransactionID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}

		applog.Error(ctx, r.logger, "GetByTransactionID failed", zap.Error(err))

		return nil, fmt.Errorf("error getting payment by transaction id: %w", err)
	}

	return &payment, nil
}
