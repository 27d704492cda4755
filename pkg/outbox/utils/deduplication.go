package utils

import (
	"context"
	"errors"

	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProcessWithDeduplication records the event id in processed_events and
// runs action inside the same transaction. A unique-violation on the
// insert means the event was already handled; it is skipped without
// running action, which makes at-least-once consumers idempotent.
func ProcessWithDeduplication(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger *zap.Logger,
	eventID int64,
	action func() error,
) error {
	span := trace.SpanFromContext(ctx)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			applog.Error(cleanupCtx, logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	query := `
		INSERT INTO processed_events (event_id)
		VALUES ($1)
	`

	if _, err := tx.Exec(ctx, query, eventID); err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			applog.Info(
				ctx,
				logger,
				"Event already processed, skipping",
				zap.Int64("event_id", eventID),
			)

			return nil
		}

		span.RecordError(err)
		return err
	}

	if err := action(); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)

		applog.Error(ctx, logger, "Failed to commit transaction", zap.Error(err))

		return err
	}

	return nil
}
