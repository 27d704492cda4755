package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
)

const listingCacheTTL = 5 * time.Minute

// cachedListingService decorates ListingService with a redis
// read-through cache on single-listing lookups. Cache failures fall
// back to the database.
type cachedListingService struct {
	ListingService

	redis  *redis.Client
	logger *zap.Logger
}

func NewCachedListingService(inner ListingService, redisClient *redis.Client, logger *zap.Logger) ListingService {
	return &cachedListingService{
		ListingService: inner,
		redis:          redisClient,
		logger:         logger,
	}
}

func (s *cachedListingService) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	key := listingCacheKey(slug)

	cached, err := s.redis.Get(ctx, key).Result()
	if err == nil {
		var listing domain.Listing
		if err := json.Unmarshal([]byte(cached), &listing); err == nil {
			return &listing, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		applog.Warn(ctx, s.logger, "Listing cache read failed", zap.Error(err), zap.String("slug", slug))
	}

	listing, err := s.ListingService.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listing); err == nil {
		if err := s.redis.Set(ctx, key, data, listingCacheTTL).Err(); err != nil {
			applog.Warn(ctx, s.logger, "Listing cache write failed", zap.Error(err), zap.String("slug", slug))
		}
	}

	return listing, nil
}

func (s *cachedListingService) Update(ctx context.Context, ownerID int64, slug string, input *domain.UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.ListingService.Update(ctx, ownerID, slug, input)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)

	return listing, nil
}

func (s *cachedListingService) Delete(ctx context.Context, ownerID int64, slug string) error {
	if err := s.ListingService.Delete(ctx, ownerID, slug); err != nil {
		return err
	}

	s.invalidate(ctx, slug)

	return nil
}

func (s *cachedListingService) invalidate(ctx context.Context, slug string) {
	if err := s.redis.Del(ctx, listingCacheKey(slug)).Err(); err != nil {
		applog.Warn(ctx, s.logger, "Listing cache invalidation failed", zap.Error(err), zap.String("slug", slug))
	}
}

func listingCacheKey(slug string) string {
	return "listing:" + slug
}
