package handler

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/middleware"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service  service.BookingService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewBookingHandler(service service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateBookingInput struct {
	ListingSlug string `json:"listing_slug" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

type bookingResponse struct {
	ID         int64   `json:"id"`
	ListingID  int64   `json:"listing_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

func newBookingResponse(booking *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         booking.ID,
		ListingID:  booking.ListingID,
		StartDate:  booking.StartDate.Format(dateLayout),
		EndDate:    booking.EndDate.Format(dateLayout),
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
	}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	input := new(CreateBookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": utils.FormatValidationError(err)})
	}

	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
	}

	endDate, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	booking, err := h.service.Create(ctx, userID, service.CreateBookingInput{
		ListingSlug: input.ListingSlug,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		applog.Warn(ctx, h.logger, "create booking failed", zap.Error(err))

		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newBookingResponse(booking))
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	bookings, err := h.service.ListByGuest(ctx, userID)
	if err != nil {
		return respondErr(c, err)
	}

	result := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, newBookingResponse(&bookings[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": result})
}

func (h *BookingHandler) GetByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id is invalid"})
	}

	booking, err := h.service.GetByID(ctx, userID, id)
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newBookingResponse(booking))
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id is invalid"})
	}

	booking, err := h.service.Cancel(ctx, userID, id)
	if err != nil {
		applog.Warn(ctx, h.logger, "cancel booking failed",
			zap.Int64("booking_id", id),
			zap.Error(err),
		)

		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newBookingResponse(booking))
}
