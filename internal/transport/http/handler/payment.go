package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/middleware"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

type PaymentHandler struct {
	service  service.PaymentService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewPaymentHandler(service service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// InitializePaymentInput mirrors the provider-callback contract: the
// amount arrives as a decimal string ("500.00"), the way Chapa takes it.
type InitializePaymentInput struct {
	BookingReference int64  `json:"booking_reference" validate:"required,gt=0"`
	Amount           string `json:"amount" validate:"required"`
}

func (h *PaymentHandler) Initialize(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	input := new(InitializePaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": utils.FormatValidationError(err)})
	}

	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil || amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": service.ErrInvalidAmount.Error()})
	}

	result, err := h.service.InitializePayment(ctx, userID, input.BookingReference, amount)
	if err != nil {
		applog.Warn(ctx, h.logger, "initialize payment failed",
			zap.Int64("booking_id", input.BookingReference),
			zap.Error(err),
		)

		return respondErr(c, err)
	}

	applog.Info(ctx, h.logger, "payment initialized",
		zap.Int64("booking_id", input.BookingReference),
		zap.String("transaction_id", result.TransactionID),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Payment initialized",
		"checkout_url": result.CheckoutURL,
		"tx_ref":       result.TransactionID,
	})
}

// Verify is the provider callback target; it carries no auth because
// the provider cannot present a user token.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	ctx := c.UserContext()

	txRef := c.Params("tx_ref")
	if txRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tx_ref is required"})
	}

	result, err := h.service.VerifyPayment(ctx, txRef)
	if err != nil {
		applog.Warn(ctx, h.logger, "verify payment failed",
			zap.String("tx_ref", txRef),
			zap.Error(err),
		)

		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  providerStatus(result.Status),
		"message": result.Message,
	})
}

// providerStatus renders a settlement state the way the provider spells
// it; callers following the checkout redirect see Chapa's vocabulary,
// not the internal one.
func providerStatus(status domain.PaymentStatus) string {
	switch status {
	case domain.PaymentStatusCompleted:
		return "success"
	case domain.PaymentStatusCancelled:
		return "cancelled"
	}

	return "pending"
}
