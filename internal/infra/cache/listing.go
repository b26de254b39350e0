package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

const keyPrefix = "rental:listing:"

// ListingCache кэш машин и промоакций провайдера в Redis.
// Значения хранятся в JSON с коротким TTL: источник правды всегда бэкенд.
type ListingCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewListingCache создает кэш листингов
func NewListingCache(client redis.Cmdable, ttl time.Duration) *ListingCache {
	return &ListingCache{
		client: client,
		ttl:    ttl,
	}
}

func carsKey(providerID string) string {
	return fmt.Sprintf("%scars:%s", keyPrefix, providerID)
}

func promotionsKey(providerID string) string {
	return fmt.Sprintf("%spromotions:%s", keyPrefix, providerID)
}

// GetCars возвращает машины провайдера из кэша
func (c *ListingCache) GetCars(ctx context.Context, providerID string) ([]domain.Car, bool, error) {
	var cars []domain.Car
	found, err := c.get(ctx, carsKey(providerID), &cars)
	if err != nil || !found {
		return nil, false, err
	}
	return cars, true, nil
}

// SetCars сохраняет машины провайдера в кэш
func (c *ListingCache) SetCars(ctx context.Context, providerID string, cars []domain.Car) error {
	return c.set(ctx, carsKey(providerID), cars)
}

// GetPromotions возвращает промоакции провайдера из кэша
func (c *ListingCache) GetPromotions(ctx context.Context, providerID string) ([]domain.Promotion, bool, error) {
	var promotions []domain.Promotion
	found, err := c.get(ctx, promotionsKey(providerID), &promotions)
	if err != nil || !found {
		return nil, false, err
	}
	return promotions, true, nil
}

// SetPromotions сохраняет промоакции провайдера в кэш
func (c *ListingCache) SetPromotions(ctx context.Context, providerID string, promotions []domain.Promotion) error {
	return c.set(ctx, promotionsKey(providerID), promotions)
}

// Invalidate удаляет листинги провайдера из кэша
func (c *ListingCache) Invalidate(ctx context.Context, providerID string) error {
	if err := c.client.Del(ctx, carsKey(providerID), promotionsKey(providerID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - del: %v", ErrInternal, err)
	}
	return nil
}

func (c *ListingCache) get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: get %s: %v", ErrInternal, key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Битая запись: считаем промахом и удаляем
		_ = c.client.Del(ctx, key).Err()
		return false, fmt.Errorf("%w: decode %s: %v", ErrInternal, key, err)
	}
	return true, nil
}

func (c *ListingCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrInternal, key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrInternal, key, err)
	}
	return nil
}
