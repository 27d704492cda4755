package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
)

type Sender interface {
	SendPaymentConfirmation(ctx context.Context, to string, guestName string, bookingID int64, amount float64) error
	SendPaymentFailure(ctx context.Context, to string, bookingID int64) error
}

type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewSMTPSender(cfg config.SMTP, logger *zap.Logger) Sender {
	return &smtpSender{
		from:     cfg.User,
		password: cfg.Password,
		host:     cfg.Host,
		port:     cfg.Port,
		logger:   logger,
		tracer:   otel.Tracer("notification/email"),
	}
}

func (s *smtpSender) SendPaymentConfirmation(ctx context.Context, to string, guestName string, bookingID int64, amount float64) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendPaymentConfirmation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.Int64("booking_id", bookingID),
	)

	subject := "Subject: Your booking is confirmed!\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<h1>Payment received 🎉</h1>
		<p>Hi %s, we received your payment of %.2f for booking #%d.</p>
		<p>Your booking is now confirmed. Enjoy your stay!</p>
	`, guestName, amount, bookingID)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	applog.Info(
		ctx,
		s.logger,
		"Sending payment confirmation email",
		zap.String("to", to),
		zap.Int64("booking_id", bookingID),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		span.RecordError(err)
		applog.Error(
			ctx,
			s.logger,
			"Error sending payment confirmation email",
			zap.String("to", to),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}

func (s *smtpSender) SendPaymentFailure(ctx context.Context, to string, bookingID int64) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendPaymentFailure")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.Int64("booking_id", bookingID),
	)

	subject := "Subject: Your payment was not completed\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<h1>Payment not completed</h1>
		<p>The payment for booking #%d was cancelled or did not go through.</p>
		<p>You can retry the payment from your bookings page.</p>
	`, bookingID)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	applog.Info(
		ctx,
		s.logger,
		"Sending payment failure email",
		zap.String("to", to),
		zap.Int64("booking_id", bookingID),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		span.RecordError(err)
		applog.Error(
			ctx,
			s.logger,
			"Error sending payment failure email",
			zap.String("to", to),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}
