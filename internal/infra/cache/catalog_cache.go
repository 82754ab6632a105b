package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	catalogListKey = "catalog:dental-services"
	catalogItemKey = "catalog:dental-service:%d"
)

// CatalogCache fronts a Catalog with Redis. A nil client, or any Redis
// failure, falls through to the wrapped catalog.
type CatalogCache struct {
	next   domain.Catalog
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(next domain.Catalog, client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{next: next, client: client, ttl: ttl}
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 2 * time.Second,
	})
}

func (c *CatalogCache) GetDentalService(ctx context.Context, id uint) (*models.DentalService, error) {
	key := fmt.Sprintf(catalogItemKey, id)

	var cached models.DentalService
	if c.read(ctx, key, &cached) {
		return &cached, nil
	}

	s, err := c.next.GetDentalService(ctx, id)
	if err != nil {
		return nil, err
	}
	c.write(ctx, key, s)
	return s, nil
}

func (c *CatalogCache) ListDentalServices(ctx context.Context) ([]models.DentalService, error) {
	var cached []models.DentalService
	if c.read(ctx, catalogListKey, &cached) {
		return cached, nil
	}

	out, err := c.next.ListDentalServices(ctx)
	if err != nil {
		return nil, err
	}
	c.write(ctx, catalogListKey, out)
	return out, nil
}

func (c *CatalogCache) SaveDentalService(ctx context.Context, s *models.DentalService) error {
	if err := c.next.SaveDentalService(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx, catalogListKey, fmt.Sprintf(catalogItemKey, s.ID))
	return nil
}

func (c *CatalogCache) read(ctx context.Context, key string, dst any) bool {
	if c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("catalog cache entry unreadable")
		return false
	}
	return true
}

func (c *CatalogCache) write(ctx context.Context, key string, v any) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

func (c *CatalogCache) invalidate(ctx context.Context, keys ...string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Strs("keys", keys).Msg("catalog cache invalidation failed")
	}
}

var _ domain.Catalog = (*CatalogCache)(nil)
