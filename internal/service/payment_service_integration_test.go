package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/gateway/chapa"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	outboxRepository "github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/testsuite"
)

type fakeGateway struct {
	initFunc   func(ctx context.Context, req chapa.InitializeRequest) (string, error)
	verifyFunc func(ctx context.Context, txRef string) (string, error)
}

func (f *fakeGateway) InitializeTransaction(ctx context.Context, req chapa.InitializeRequest) (string, error) {
	return f.initFunc(ctx, req)
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, txRef string) (string, error) {
	return f.verifyFunc(ctx, txRef)
}

type PaymentSuite struct {
	testsuite.BaseSuite

	gateway  *fakeGateway
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	listings repository.ListingRepository

	svc service.PaymentService
}

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentSuite))
}

func (s *PaymentSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *PaymentSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *PaymentSuite) SetupTest() {
	s.BaseSuite.TruncateTable("users")
	s.BaseSuite.TruncateTable("outbox")
	s.BaseSuite.TruncateTable("processed_events")

	logger := zap.NewNop()

	s.payments = repository.NewPaymentRepository(s.DbPool, logger)
	s.bookings = repository.NewBookingRepository(s.DbPool, logger)
	s.users = repository.NewUserRepository(s.DbPool, logger)
	s.listings = repository.NewListingRepository(s.DbPool, logger)

	s.gateway = &fakeGateway{
		initFunc: func(ctx context.Context, req chapa.InitializeRequest) (string, error) {
			return "https://checkout.chapa.co/pay/" + req.TxRef, nil
		},
		verifyFunc: func(ctx context.Context, txRef string) (string, error) {
			return "success", nil
		},
	}

	s.svc = service.NewPaymentService(
		s.DbPool,
		s.payments,
		s.bookings,
		s.users,
		outboxRepository.NewOutboxRepository(s.DbPool, logger),
		s.gateway,
		"payment_events",
		"http://localhost:8000",
		logger,
	)
}

func (s *PaymentSuite) seedBooking() (*domain.User, *domain.Booking) {
	user := &domain.User{
		Email:     "guest@example.com",
		Password:  "hash",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	}
	s.Require().NoError(s.users.Create(s.Ctx, user))

	listing := &domain.Listing{
		OwnerID:       user.ID,
		Title:         "Lakeside Cottage",
		Slug:          "lakeside-cottage-abc123",
		Description:   "A cottage by the lake",
		Location:      "Bahir Dar",
		PricePerNight: 500,
	}
	s.Require().NoError(s.listings.Create(s.Ctx, listing))

	booking := &domain.Booking{
		ListingID: listing.ID,
		GuestID:   user.ID,
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		Status:    domain.BookingStatusPending,
	}
	booking.TotalPrice = float64(booking.Nights()) * listing.PricePerNight
	s.Require().NoError(s.bookings.Create(s.Ctx, booking))

	return user, booking
}

func (s *PaymentSuite) outboxCount(eventType string) int {
	var count int
	err := s.DbPool.QueryRow(
		s.Ctx,
		"SELECT COUNT(*) FROM outbox WHERE event_type = $1",
		eventType,
	).Scan(&count)
	s.Require().NoError(err)

	return count
}

func (s *PaymentSuite) TestInitialize_CreatesPendingPayment() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)
	s.Require().NotEmpty(result.TransactionID)
	s.Require().Equal("https://checkout.chapa.co/pay/"+result.TransactionID, result.CheckoutURL)
	s.Require().Equal(1500.0, result.Amount)

	payment, err := s.payments.GetByTransactionID(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().True(payment.IsPending())
	s.Require().Equal(booking.ID, payment.BookingID)
}

func (s *PaymentSuite) TestInitialize_AmountFixedFromCallerInput() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, 500.00)
	s.Require().NoError(err)
	s.Require().Equal(500.00, result.Amount)

	payment, err := s.payments.GetByTransactionID(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(500.00, payment.Amount)
}

func (s *PaymentSuite) TestInitialize_RejectsNonPositiveAmount() {
	_, booking := s.seedBooking()

	for _, amount := range []float64{0, -150.25} {
		_, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, amount)
		s.Require().ErrorIs(err, service.ErrInvalidAmount)
	}

	var count int
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM payments").Scan(&count))
	s.Require().Zero(count)
}

func (s *PaymentSuite) TestInitialize_UniqueTransactionIDs() {
	_, booking := s.seedBooking()

	first, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	second, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	s.Require().NotEqual(first.TransactionID, second.TransactionID)
}

func (s *PaymentSuite) TestInitialize_UnknownBooking() {
	user, _ := s.seedBooking()

	_, err := s.svc.InitializePayment(s.Ctx, user.ID, 999999, 500)
	s.Require().ErrorIs(err, service.ErrBookingNotFound)
}

func (s *PaymentSuite) TestInitialize_ForeignBookingReportedAsUnknown() {
	_, booking := s.seedBooking()

	stranger := &domain.User{
		Email:     "stranger@example.com",
		Password:  "hash",
		FirstName: "Sara",
		LastName:  "Bekele",
	}
	s.Require().NoError(s.users.Create(s.Ctx, stranger))

	_, err := s.svc.InitializePayment(s.Ctx, stranger.ID, booking.ID, booking.TotalPrice)
	s.Require().ErrorIs(err, service.ErrBookingNotFound)
}

func (s *PaymentSuite) TestInitialize_GatewayRejectedCancelsPayment() {
	_, booking := s.seedBooking()

	var capturedTxRef string
	s.gateway.initFunc = func(ctx context.Context, req chapa.InitializeRequest) (string, error) {
		capturedTxRef = req.TxRef
		return "", &chapa.RejectedError{StatusCode: 400, Status: "failed", Message: "bad request"}
	}

	_, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().ErrorIs(err, service.ErrPaymentInitFailed)

	payment, err := s.payments.GetByTransactionID(s.Ctx, capturedTxRef)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCancelled, payment.Status)
	s.Require().Equal(1, s.outboxCount(domain.EventPaymentCancelled))
}

func (s *PaymentSuite) TestInitialize_GatewayUnreachableCancelsPayment() {
	_, booking := s.seedBooking()

	var capturedTxRef string
	s.gateway.initFunc = func(ctx context.Context, req chapa.InitializeRequest) (string, error) {
		capturedTxRef = req.TxRef
		return "", chapa.ErrUnreachable
	}

	_, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().ErrorIs(err, service.ErrUpstreamUnavailable)

	payment, err := s.payments.GetByTransactionID(s.Ctx, capturedTxRef)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCancelled, payment.Status)
}

func (s *PaymentSuite) TestVerify_SuccessCompletesPaymentAndConfirmsBooking() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	verifyResult, err := s.svc.VerifyPayment(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCompleted, verifyResult.Status)

	payment, err := s.payments.GetByTransactionID(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCompleted, payment.Status)

	confirmed, err := s.bookings.GetByID(s.Ctx, booking.ID)
	s.Require().NoError(err)
	s.Require().Equal(domain.BookingStatusConfirmed, confirmed.Status)

	s.Require().Equal(1, s.outboxCount(domain.EventPaymentCompleted))
}

func (s *PaymentSuite) TestVerify_IsIdempotent() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		verifyResult, err := s.svc.VerifyPayment(s.Ctx, result.TransactionID)
		s.Require().NoError(err)
		s.Require().Equal(domain.PaymentStatusCompleted, verifyResult.Status)
	}

	// Repeated verifications settle the payment exactly once.
	s.Require().Equal(1, s.outboxCount(domain.EventPaymentCompleted))
}

func (s *PaymentSuite) TestVerify_FailureCancelsPayment() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	s.gateway.verifyFunc = func(ctx context.Context, txRef string) (string, error) {
		return "failed", nil
	}

	verifyResult, err := s.svc.VerifyPayment(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCancelled, verifyResult.Status)

	pending, err := s.bookings.GetByID(s.Ctx, booking.ID)
	s.Require().NoError(err)
	s.Require().Equal(domain.BookingStatusPending, pending.Status)

	s.Require().Equal(1, s.outboxCount(domain.EventPaymentCancelled))
}

func (s *PaymentSuite) TestVerify_CompletedNeverRegresses() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	_, err = s.svc.VerifyPayment(s.Ctx, result.TransactionID)
	s.Require().NoError(err)

	// A later callback reporting failure must not downgrade the record.
	s.gateway.verifyFunc = func(ctx context.Context, txRef string) (string, error) {
		return "failed", nil
	}

	verifyResult, err := s.svc.VerifyPayment(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCompleted, verifyResult.Status)

	payment, err := s.payments.GetByTransactionID(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusCompleted, payment.Status)
}

func (s *PaymentSuite) TestVerify_UnknownTxRef() {
	s.seedBooking()

	s.gateway.verifyFunc = func(ctx context.Context, txRef string) (string, error) {
		return "failed", nil
	}

	_, err := s.svc.VerifyPayment(s.Ctx, "00000000-0000-0000-0000-000000000000")
	s.Require().ErrorIs(err, service.ErrPaymentNotFound)

	var count int
	err = s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM payments").Scan(&count)
	s.Require().NoError(err)
	s.Require().Zero(count)
}

func (s *PaymentSuite) TestVerify_GatewayErrorLeavesPaymentUntouched() {
	_, booking := s.seedBooking()

	result, err := s.svc.InitializePayment(s.Ctx, booking.GuestID, booking.ID, booking.TotalPrice)
	s.Require().NoError(err)

	s.gateway.verifyFunc = func(ctx context.Context, txRef string) (string, error) {
		return "", errors.New("connection reset")
	}

	_, err = s.svc.VerifyPayment(s.Ctx, result.TransactionID)
	s.Require().ErrorIs(err, service.ErrVerificationUnavailable)

	payment, err := s.payments.GetByTransactionID(s.Ctx, result.TransactionID)
	s.Require().NoError(err)
	s.Require().Equal(domain.PaymentStatusPending, payment.Status)
}
