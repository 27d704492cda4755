package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Listing, int64, error)
	Update(ctx context.Context, slug string, ownerID int64, input *domain.UpdateListingInput) error
	Delete(ctx context.Context, slug string, ownerID int64) error
}

type listingRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewListingRepository(pool *pgxpool.Pool, logger *zap.Logger) ListingRepository {
	return &listingRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/listing_repo"),
	}
}

func (r *listingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", listing.Slug),
		attribute.Int64("owner_id", listing.OwnerID),
	)

	query := `
		INSERT INTO listings (owner_id, title, slug, description, location, price_per_night)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		listing.OwnerID,
		listing.Title,
		listing.Slug,
		listing.Description,
		listing.Location,
		listing.PricePerNight,
	).Scan(
		&listing.ID,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Create listing failed", zap.Error(err))

		return fmt.Errorf("error creating listing: %w", err)
	}

	return nil
}

func (r *listingRepo) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.GetBySlug")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	query := `
		SELECT id, owner_id, title, slug, description, location, price_per_night, created_at, updated_at
		FROM listings
		WHERE slug = $1
	`

	var listing domain.Listing
	if err := r.pool.QueryRow(ctx, query, slug).Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&listing.Slug,
		&listing.Description,
		&listing.Location,
		&listing.PricePerNight,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}

		span.RecordError(err)

		return nil, fmt.Errorf("error getting listing by slug: %w", err)
	}

	return &listing, nil
}

func (r *listingRepo) List(ctx context.Context, limit, offset int64, search string) ([]domain.Listing, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	)

	where := ""
	args := []interface{}{limit, offset}
	if search != "" {
		where = "WHERE title ILIKE $3 OR location ILIKE $3"
		args = append(args, "%"+search+"%")
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, title, slug, description, location, price_per_night, created_at, updated_at,
			COUNT(*) OVER() AS total
		FROM listings
		%s
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("error listing listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	var total int64
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID,
			&l.OwnerID,
			&l.Title,
			&l.Slug,
			&l.Description,
			&l.Location,
			&l.PricePerNight,
			&l.CreatedAt,
			&l.UpdatedAt,
			&total,
		); err != nil {
			span.RecordError(err)

			return nil, 0, fmt.Errorf("error scanning listing: %w", err)
		}

		listings = append(listings, l)
	}

	return listings, total, rows.Err()
}

func (r *listingRepo) Update(ctx context.Context, slug string, ownerID int64, input *domain.UpdateListingInput) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{slug, ownerID}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Title != nil {
		addSet("title", *input.Title)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.Location != nil {
		addSet("location", *input.Location)
	}
	if input.PricePerNight != nil {
		addSet("price_per_night", *input.PricePerNight)
	}

	query := fmt.Sprintf(`
		UPDATE listings
		SET %s
		WHERE slug = $1 AND owner_id = $2
	`, strings.Join(sets, ", "))

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Update listing failed", zap.Error(err))

		return fmt.Errorf("error updating listing: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *listingRepo) Delete(ctx context.Context, slug string, ownerID int64) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	query := `
		DELETE FROM listings
		WHERE slug = $1 AND owner_id = $2
	`

	commandTag, err := r.pool.Exec(ctx, query, slug, ownerID)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("error deleting listing: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}
