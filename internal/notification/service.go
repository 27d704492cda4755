package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/notification/email"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	outboxUtils "github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/utils"
)

// Service turns payment settlement events into guest emails. Events are
// deduplicated through processed_events, so redelivered messages do not
// produce duplicate mail.
type Service struct {
	emailSender email.Sender
	logger      *zap.Logger
	pool        *pgxpool.Pool
	tracer      trace.Tracer
}

func NewService(emailSender email.Sender, logger *zap.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		emailSender: emailSender,
		logger:      logger,
		pool:        pool,
		tracer:      otel.Tracer("notification-service"),
	}
}

func (s *Service) HandlePaymentCompleted(ctx context.Context, eventID int64, event domain.PaymentCompletedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandlePaymentCompleted")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.String("transaction_id", event.TransactionID),
	)

	if event.GuestEmail == "" {
		applog.Warn(
			ctx,
			s.logger,
			"Payment completed event without guest email",
			zap.String("transaction_id", event.TransactionID),
		)

		return nil
	}

	return outboxUtils.ProcessWithDeduplication(ctx, s.pool, s.logger, eventID, func() error {
		return s.emailSender.SendPaymentConfirmation(ctx, event.GuestEmail, event.GuestName, event.BookingID, event.Amount)
	})
}

func (s *Service) HandlePaymentCancelled(ctx context.Context, eventID int64, event domain.PaymentCancelledEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandlePaymentCancelled")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.String("transaction_id", event.TransactionID),
	)

	if event.GuestEmail == "" {
		return nil
	}

	return outboxUtils.ProcessWithDeduplication(ctx, s.pool, s.logger, eventID, func() error {
		return s.emailSender.SendPaymentFailure(ctx, event.GuestEmail, event.BookingID)
	})
}
