package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
)

type CreateListingInput struct {
	Title         string
	Description   string
	Location      string
	PricePerNight float64
}

type ListingPage struct {
	Listings []domain.Listing
	Total    int64
	Page     int64
	PerPage  int64
}

type ListingService interface {
	Create(ctx context.Context, ownerID int64, input CreateListingInput) (*domain.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	List(ctx context.Context, page, perPage int64, search string) (*ListingPage, error)
	Update(ctx context.Context, ownerID int64, slug string, input *domain.UpdateListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, ownerID int64, slug string) error
}

type listingService struct {
	listings repository.ListingRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewListingService(listings repository.ListingRepository, logger *zap.Logger) ListingService {
	return &listingService{
		listings: listings,
		logger:   logger,
		tracer:   otel.Tracer("service/listing_service"),
	}
}

func (s *listingService) Create(ctx context.Context, ownerID int64, input CreateListingInput) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "ListingService.Create")
	defer span.End()

	listing := &domain.Listing{
		OwnerID:       ownerID,
		Title:         input.Title,
		Slug:          newSlug(input.Title),
		Description:   input.Description,
		Location:      input.Location,
		PricePerNight: input.PricePerNight,
	}

	span.SetAttributes(attribute.String("slug", listing.Slug))

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	applog.Info(ctx, s.logger, "Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.String("slug", listing.Slug),
	)

	return listing, nil
}

func (s *listingService) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "ListingService.GetBySlug")
	defer span.End()

	listing, err := s.listings.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, fmt.Errorf("error loading listing: %w", err)
	}

	return listing, nil
}

func (s *listingService) List(ctx context.Context, page, perPage int64, search string) (*ListingPage, error) {
	ctx, span := s.tracer.Start(ctx, "ListingService.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	listings, total, err := s.listings.List(ctx, perPage, (page-1)*perPage, search)
	if err != nil {
		return nil, fmt.Errorf("error listing listings: %w", err)
	}

	return &ListingPage{Listings: listings, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *listingService) Update(ctx context.Context, ownerID int64, slug string, input *domain.UpdateListingInput) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "ListingService.Update")
	defer span.End()

	span.SetAttributes(attribute.String("slug", slug))

	if err := s.listings.Update(ctx, slug, ownerID, input); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, fmt.Errorf("error updating listing: %w", err)
	}

	return s.GetBySlug(ctx, slug)
}

func (s *listingService) Delete(ctx context.Context, ownerID int64, slug string) error {
	ctx, span := s.tracer.Start(ctx, "ListingService.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("slug", slug))

	if err := s.listings.Delete(ctx, slug, ownerID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}

		return fmt.Errorf("error deleting listing: %w", err)
	}

	return nil
}

// newSlug derives a URL-safe slug from the title plus a short random
// suffix so equal titles never collide.
func newSlug(title string) string {
	var b strings.Builder
	prevDash := true

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteByte('-')
			prevDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	suffix := uuid.New().String()[:8]
	if slug == "" {
		return suffix
	}

	return slug + "-" + suffix
}
