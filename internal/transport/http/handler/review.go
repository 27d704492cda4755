package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/middleware"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

type ReviewHandler struct {
	service  service.ReviewService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewReviewHandler(service service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateReviewInput struct {
	Rating  int32  `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewResponse struct {
	ID      int64  `json:"id"`
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

func newReviewResponse(review *domain.Review) reviewResponse {
	return reviewResponse{
		ID:      review.ID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	input := new(CreateReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": utils.FormatValidationError(err)})
	}

	review, err := h.service.Create(ctx, userID, service.CreateReviewInput{
		ListingSlug: c.Params("slug"),
		Rating:      input.Rating,
		Comment:     input.Comment,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newReviewResponse(review))
}

func (h *ReviewHandler) ListByListing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	reviews, err := h.service.ListByListing(ctx, c.Params("slug"))
	if err != nil {
		return respondErr(c, err)
	}

	result := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		result = append(result, newReviewResponse(&reviews[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"reviews": result})
}
