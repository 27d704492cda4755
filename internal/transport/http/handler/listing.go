package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/middleware"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

type ListingHandler struct {
	service  service.ListingService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewListingHandler(service service.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateListingInput struct {
	Title         string  `json:"title" validate:"required,min=3,max=200"`
	Description   string  `json:"description" validate:"max=2000"`
	Location      string  `json:"location" validate:"required,max=200"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
}

type UpdateListingInput struct {
	Title         *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Location      *string  `json:"location" validate:"omitempty,max=200"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gt=0"`
}

type listingResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
}

func newListingResponse(listing *domain.Listing) listingResponse {
	return listingResponse{
		ID:            listing.ID,
		Title:         listing.Title,
		Slug:          listing.Slug,
		Description:   listing.Description,
		Location:      listing.Location,
		PricePerNight: listing.PricePerNight,
	}
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	input := new(CreateListingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": utils.FormatValidationError(err)})
	}

	listing, err := h.service.Create(ctx, userID, service.CreateListingInput{
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		PricePerNight: input.PricePerNight,
	})
	if err != nil {
		applog.Warn(ctx, h.logger, "create listing failed", zap.Error(err))

		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newListingResponse(listing))
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page := int64(c.QueryInt("page", 1))
	perPage := int64(c.QueryInt("per_page", 20))
	search := c.Query("search")

	result, err := h.service.List(ctx, page, perPage, search)
	if err != nil {
		return respondErr(c, err)
	}

	listings := make([]listingResponse, 0, len(result.Listings))
	for i := range result.Listings {
		listings = append(listings, newListingResponse(&result.Listings[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"listings": listings,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
	})
}

func (h *ListingHandler) GetBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()

	listing, err := h.service.GetBySlug(ctx, c.Params("slug"))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newListingResponse(listing))
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	input := new(UpdateListingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": utils.FormatValidationError(err)})
	}

	listing, err := h.service.Update(ctx, userID, c.Params("slug"), &domain.UpdateListingInput{
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		PricePerNight: input.PricePerNight,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newListingResponse(listing))
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	if err := h.service.Delete(ctx, userID, c.Params("slug")); err != nil {
		return respondErr(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
