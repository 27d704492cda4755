package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
)

type CreateReviewInput struct {
	ListingSlug string
	Rating      int32
	Comment     string
}

type ReviewService interface {
	Create(ctx context.Context, authorID int64, input CreateReviewInput) (*domain.Review, error)
	ListByListing(ctx context.Context, listingSlug string) ([]domain.Review, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	listings repository.ListingRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewReviewService(reviews repository.ReviewRepository, listings repository.ListingRepository, logger *zap.Logger) ReviewService {
	return &reviewService{
		reviews:  reviews,
		listings: listings,
		logger:   logger,
		tracer:   otel.Tracer("service/review_service"),
	}
}

func (s *reviewService) Create(ctx context.Context, authorID int64, input CreateReviewInput) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	span.SetAttributes(attribute.String("listing_slug", input.ListingSlug))

	listing, err := s.listings.GetBySlug(ctx, input.ListingSlug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, fmt.Errorf("error loading listing: %w", err)
	}

	review := &domain.Review{
		ListingID: listing.ID,
		AuthorID:  authorID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	return review, nil
}

func (s *reviewService) ListByListing(ctx context.Context, listingSlug string) ([]domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ListByListing")
	defer span.End()

	listing, err := s.listings.GetBySlug(ctx, listingSlug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, fmt.Errorf("error loading listing: %w", err)
	}

	reviews, err := s.reviews.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	return reviews, nil
}
