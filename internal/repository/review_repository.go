package repository

import (
	"context"
	"fmt"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}

type reviewRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewReviewRepository(pool *pgxpool.Pool, logger *zap.Logger) ReviewRepository {
	return &reviewRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/review_repo"),
	}
}

func (r *reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	ctx, span := r.tracer.Start(ctx, "ReviewRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("listing_id", review.ListingID),
		attribute.Int64("author_id", review.AuthorID),
	)

	query := `
		INSERT INTO reviews (listing_id, author_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		review.ListingID,
		review.AuthorID,
		review.Rating,
		review.Comment,
	).Scan(
		&review.ID,
		&review.CreatedAt,
	); err != nil {
		span.RecordError(err)

		applog.Error(ctx, r.logger, "Create review failed", zap.Error(err))

		return fmt.Errorf("error creating review: %w", err)
	}

	return nil
}

func (r *reviewRepo) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	ctx, span := r.tracer.Start(ctx, "ReviewRepository.ListByListing")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("listing_id", listingID),
	)

	query := `
		SELECT id, listing_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ListingID,
			&rv.AuthorID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning review: %w", err)
		}

		reviews = append(reviews, rv)
	}

	return reviews, rows.Err()
}
