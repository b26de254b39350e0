package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "rental:listing:cars:p1", carsKey("p1"))
	assert.Equal(t, "rental:listing:promotions:p1", promotionsKey("p1"))
}

func TestListingCache_ConnectionError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewListingCache(client, time.Minute)

	_, found, err := c.GetCars(context.Background(), "p1")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrInternal)

	assert.ErrorIs(t, c.SetCars(context.Background(), "p1", nil), ErrInternal)
}

// Требует запущенный Redis: REDIS_ADDR=localhost:6379
func TestListingCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	c := NewListingCache(client, time.Minute)
	ctx := context.Background()
	providerID := "test-" + time.Now().Format("150405.000000")
	defer func() { _ = c.Invalidate(ctx, providerID) }()

	_, found, err := c.GetCars(ctx, providerID)
	require.NoError(t, err)
	assert.False(t, found)

	cars := []domain.Car{{ID: "c1", Brand: "Toyota", PricePerDay: decimal.NewFromInt(1000), Images: []string{}}}
	require.NoError(t, c.SetCars(ctx, providerID, cars))

	got, found, err := c.GetCars(ctx, providerID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "Toyota", got[0].Brand)
	assert.True(t, got[0].PricePerDay.Equal(decimal.NewFromInt(1000)))

	require.NoError(t, c.SetPromotions(ctx, providerID, []domain.Promotion{}))
	promos, found, err := c.GetPromotions(ctx, providerID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, promos)
}
