package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockClient struct {
	cars       []domain.Car
	promotions []domain.Promotion
	err        error
	carCalls   int
	promoCalls int
}

func (m *mockClient) GetProviderCars(_ context.Context, _, _ string) ([]domain.Car, error) {
	m.carCalls++
	return m.cars, m.err
}

func (m *mockClient) GetProviderPromotions(_ context.Context, _, _ string) ([]domain.Promotion, error) {
	m.promoCalls++
	return m.promotions, m.err
}

type memoryCache struct {
	cars       map[string][]domain.Car
	promotions map[string][]domain.Promotion
	readErr    error
	delErr     error
	dropped    []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		cars:       map[string][]domain.Car{},
		promotions: map[string][]domain.Promotion{},
	}
}

func (c *memoryCache) GetCars(_ context.Context, providerID string) ([]domain.Car, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	cars, ok := c.cars[providerID]
	return cars, ok, nil
}

func (c *memoryCache) SetCars(_ context.Context, providerID string, cars []domain.Car) error {
	c.cars[providerID] = cars
	return nil
}

func (c *memoryCache) GetPromotions(_ context.Context, providerID string) ([]domain.Promotion, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	p, ok := c.promotions[providerID]
	return p, ok, nil
}

func (c *memoryCache) SetPromotions(_ context.Context, providerID string, promotions []domain.Promotion) error {
	c.promotions[providerID] = promotions
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, providerID string) error {
	if c.delErr != nil {
		return c.delErr
	}
	c.dropped = append(c.dropped, providerID)
	delete(c.cars, providerID)
	delete(c.promotions, providerID)
	return nil
}

type countingMetrics struct {
	hits, misses int
}

func (m *countingMetrics) CacheLookup(_ string, hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

var authed = session.Session{Token: "tok"}

func TestGetPromotionsByProvider_ReturnsRawList(t *testing.T) {
	expired := domain.Promotion{ID: "old", EndDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	client := &mockClient{promotions: []domain.Promotion{expired, {ID: "p2"}}}
	svc := NewService(client, nil, nil, nopLogger{})

	promos, err := svc.GetPromotionsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)
	assert.Len(t, promos, 2)
}

func TestGetPromotionsByProvider_EmptyIsNotNil(t *testing.T) {
	svc := NewService(&mockClient{}, nil, nil, nopLogger{})

	promos, err := svc.GetPromotionsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)
	assert.NotNil(t, promos)
	assert.Empty(t, promos)
}

func TestGetCarsByProvider_Validation(t *testing.T) {
	client := &mockClient{}
	svc := NewService(client, nil, nil, nopLogger{})

	_, err := svc.GetCarsByProvider(context.Background(), authed, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetCarsByProvider(context.Background(), session.Session{}, "prov-1")
	assert.ErrorIs(t, err, session.ErrAuthRequired)

	assert.Zero(t, client.carCalls)
}

func TestGetCarsByProvider_ReadThroughCache(t *testing.T) {
	client := &mockClient{cars: []domain.Car{{ID: "c1"}}}
	cache := newMemoryCache()
	metrics := &countingMetrics{}
	svc := NewService(client, cache, metrics, nopLogger{})

	first, err := svc.GetCarsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)
	second, err := svc.GetCarsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.carCalls)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestGetCarsByProvider_CacheErrorFallsBackToBackend(t *testing.T) {
	client := &mockClient{cars: []domain.Car{{ID: "c1"}}}
	cache := newMemoryCache()
	cache.readErr = errors.New("redis down")
	svc := NewService(client, cache, nil, nopLogger{})

	cars, err := svc.GetCarsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)
	assert.Len(t, cars, 1)
	assert.Equal(t, 1, client.carCalls)
}

func TestGetCarsByProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"not found", &rentalapi.APIError{Kind: rentalapi.ErrNotFound, StatusCode: 404}, ErrProviderNotFound},
		{"unauthorized", &rentalapi.APIError{Kind: rentalapi.ErrUnauthorized, StatusCode: 401}, session.ErrAuthRequired},
		{"network", rentalapi.ErrUnavailable, ErrUnavailable},
		{"forbidden", &rentalapi.APIError{Kind: rentalapi.ErrForbidden, StatusCode: 403}, domain.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockClient{err: tt.err}, nil, nil, nopLogger{})
			_, err := svc.GetCarsByProvider(context.Background(), authed, "prov-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInvalidateListings_NextReadGoesToBackend(t *testing.T) {
	client := &mockClient{cars: []domain.Car{{ID: "c1"}}}
	cache := newMemoryCache()
	svc := NewService(client, cache, nil, nopLogger{})

	_, err := svc.GetCarsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateListings(context.Background(), "prov-1"))
	_, err = svc.GetCarsByProvider(context.Background(), authed, "prov-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"prov-1"}, cache.dropped)
	assert.Equal(t, 2, client.carCalls)
}

func TestInvalidateListings_NoCacheAndErrors(t *testing.T) {
	svc := NewService(&mockClient{}, nil, nil, nopLogger{})
	assert.NoError(t, svc.InvalidateListings(context.Background(), "prov-1"))

	cache := newMemoryCache()
	cache.delErr = errors.New("redis down")
	svc = NewService(&mockClient{}, cache, nil, nopLogger{})
	assert.ErrorIs(t, svc.InvalidateListings(context.Background(), "prov-1"), ErrCache)
}
