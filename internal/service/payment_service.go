package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/gateway/chapa"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	outboxdomain "github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/worker"
)

const gatewayStatusSuccess = "success"

// PaymentGateway is the outbound payment provider surface the service
// depends on.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req chapa.InitializeRequest) (string, error)
	VerifyTransaction(ctx context.Context, txRef string) (string, error)
}

type InitializePaymentResult struct {
	TransactionID string
	CheckoutURL   string
	Amount        float64
}

type VerifyPaymentResult struct {
	Status  domain.PaymentStatus
	Message string
}

type PaymentService interface {
	InitializePayment(ctx context.Context, userID, bookingID int64, amount float64) (*InitializePaymentResult, error)
	VerifyPayment(ctx context.Context, txRef string) (*VerifyPaymentResult, error)
}

type paymentService struct {
	pool     *pgxpool.Pool
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	outbox   worker.OutboxRepository
	gateway  PaymentGateway
	topic    string
	baseURL  string
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewPaymentService(
	pool *pgxpool.Pool,
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	outbox worker.OutboxRepository,
	gateway PaymentGateway,
	topic string,
	baseURL string,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		pool:     pool,
		payments: payments,
		bookings: bookings,
		users:    users,
		outbox:   outbox,
		gateway:  gateway,
		topic:    topic,
		baseURL:  baseURL,
		logger:   logger,
		tracer:   otel.Tracer("service/payment_service"),
	}
}

// InitializePayment creates a PENDING payment for the booking at the
// caller-supplied amount, asks the provider for a checkout session and
// returns the hosted checkout URL. If the provider call fails for any
// reason the payment is cancelled before the error is returned, so a
// checkout URL and a CANCELLED record can never coexist.
func (s *paymentService) InitializePayment(ctx context.Context, userID, bookingID int64, amount float64) (*InitializePaymentResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.InitializePayment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", bookingID),
		attribute.Int64("user_id", userID),
	)

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}

		return nil, fmt.Errorf("error loading booking: %w", err)
	}

	// Bookings are only payable by the guest who placed them; report
	// someone else's booking as unknown.
	if booking.GuestID != userID {
		return nil, ErrBookingNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	payment, err := s.payments.Create(ctx, bookingID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidAmount) {
			return nil, ErrInvalidAmount
		}

		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	span.SetAttributes(attribute.String("transaction_id", payment.TransactionID))

	checkoutURL, err := s.gateway.InitializeTransaction(ctx, chapa.InitializeRequest{
		Amount:      payment.Amount,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		TxRef:       payment.TransactionID,
		CallbackURL: s.baseURL + "/payments/verify-payment/" + payment.TransactionID,
		Title:       "Booking Payment",
		Description: fmt.Sprintf("Payment for booking %d", bookingID),
	})
	if err != nil {
		s.cancelPayment(ctx, payment, user.Email)

		if errors.Is(err, chapa.ErrUnreachable) {
			applog.Error(ctx, s.logger, "Payment provider unreachable",
				zap.Error(err),
				zap.String("transaction_id", payment.TransactionID),
			)

			return nil, ErrUpstreamUnavailable
		}

		applog.Warn(ctx, s.logger, "Payment initialization rejected",
			zap.Error(err),
			zap.String("transaction_id", payment.TransactionID),
		)

		return nil, ErrPaymentInitFailed
	}

	return &InitializePaymentResult{
		TransactionID: payment.TransactionID,
		CheckoutURL:   checkoutURL,
		Amount:        payment.Amount,
	}, nil
}

// VerifyPayment asks the provider for the transaction outcome and
// settles the local record. The provider is consulted before anything
// is mutated: an inconclusive verification leaves the record exactly as
// it was. Repeated verifications of a settled payment are no-ops.
func (s *paymentService) VerifyPayment(ctx context.Context, txRef string) (*VerifyPaymentResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", txRef))

	providerStatus, err := s.gateway.VerifyTransaction(ctx, txRef)
	if err != nil {
		applog.Error(ctx, s.logger, "Payment verification failed upstream",
			zap.Error(err),
			zap.String("transaction_id", txRef),
		)

		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	payment, err := s.payments.GetByTransactionID(ctx, txRef)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}

		return nil, fmt.Errorf("error loading payment: %w", err)
	}

	target := domain.PaymentStatusCancelled
	if providerStatus == gatewayStatusSuccess {
		target = domain.PaymentStatusCompleted
	}

	// Settled payments need no transaction: repeated provider callbacks
	// are common and a settled record never changes again.
	if payment.IsTerminal() {
		message := "Payment already finalized"
		if payment.Status == target {
			message = settlementMessage(payment.Status)
		}

		return &VerifyPaymentResult{Status: payment.Status, Message: message}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, transitioned, err := s.payments.UpdateStatus(ctx, tx, txRef, target)
	if err != nil {
		// A payment settled the other way stays settled; report the
		// stored state instead of flipping it.
		if errors.Is(err, repository.ErrPaymentFinalized) {
			return &VerifyPaymentResult{
				Status:  updated.Status,
				Message: "Payment already finalized",
			}, nil
		}

		return nil, fmt.Errorf("error updating payment status: %w", err)
	}

	if transitioned {
		if target == domain.PaymentStatusCompleted {
			if err := s.bookings.Confirm(ctx, tx, payment.BookingID); err != nil {
				return nil, fmt.Errorf("error confirming booking: %w", err)
			}
		}

		if err := s.saveSettlementEvent(ctx, tx, updated, target, ""); err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("error committing transaction: %w", err)
		}
	}

	return &VerifyPaymentResult{Status: updated.Status, Message: settlementMessage(updated.Status)}, nil
}

func settlementMessage(status domain.PaymentStatus) string {
	if status == domain.PaymentStatusCompleted {
		return "Payment completed successfully"
	}

	return "Payment was not completed"
}

// cancelPayment settles the record as CANCELLED after a failed provider
// call. Failure here is logged but not surfaced: the caller already has
// a more useful error to return.
func (s *paymentService) cancelPayment(ctx context.Context, payment *domain.Payment, guestEmail string) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		applog.Error(ctx, s.logger, "Cancel payment: begin failed", zap.Error(err))
		return
	}
	defer tx.Rollback(ctx)

	updated, transitioned, err := s.payments.UpdateStatus(ctx, tx, payment.TransactionID, domain.PaymentStatusCancelled)
	if err != nil {
		applog.Error(ctx, s.logger, "Cancel payment: update failed",
			zap.Error(err),
			zap.String("transaction_id", payment.TransactionID),
		)

		return
	}

	if !transitioned {
		return
	}

	if err := s.saveSettlementEvent(ctx, tx, updated, domain.PaymentStatusCancelled, guestEmail); err != nil {
		applog.Error(ctx, s.logger, "Cancel payment: outbox save failed", zap.Error(err))
		return
	}

	if err := tx.Commit(ctx); err != nil {
		applog.Error(ctx, s.logger, "Cancel payment: commit failed", zap.Error(err))
	}
}

func (s *paymentService) saveSettlementEvent(ctx context.Context, tx pgx.Tx, payment *domain.Payment, status domain.PaymentStatus, guestEmail string) error {
	guestName := ""
	if guestEmail == "" {
		if booking, err := s.bookings.GetByID(ctx, payment.BookingID); err == nil {
			if user, err := s.users.GetByID(ctx, booking.GuestID); err == nil {
				guestEmail = user.Email
				guestName = user.FirstName + " " + user.LastName
			}
		}
	}

	var (
		eventType string
		payload   any
	)

	now := time.Now().UTC()

	if status == domain.PaymentStatusCompleted {
		eventType = domain.EventPaymentCompleted
		payload = domain.PaymentCompletedEvent{
			TransactionID: payment.TransactionID,
			BookingID:     payment.BookingID,
			Amount:        payment.Amount,
			GuestEmail:    guestEmail,
			GuestName:     guestName,
			CompletedAt:   now,
		}
	} else {
		eventType = domain.EventPaymentCancelled
		payload = domain.PaymentCancelledEvent{
			TransactionID: payment.TransactionID,
			BookingID:     payment.BookingID,
			Amount:        payment.Amount,
			GuestEmail:    guestEmail,
			CancelledAt:   now,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling settlement event: %w", err)
	}

	return s.outbox.SaveOutboxEvent(ctx, tx, &outboxdomain.OutboxEvent{
		AggregateType: "payment",
		AggregateID:   payment.TransactionID,
		EventType:     eventType,
		Payload:       data,
		Topic:         s.topic,
	})
}
