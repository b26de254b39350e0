package catalog

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// RentalClient интерфейс клиента бэкенда для листингов провайдера
type RentalClient interface {
	GetProviderCars(ctx context.Context, token, providerID string) ([]domain.Car, error)
	GetProviderPromotions(ctx context.Context, token, providerID string) ([]domain.Promotion, error)
}

// ListingCache кэш листингов провайдера.
// Промах кэша возвращает found=false без ошибки.
type ListingCache interface {
	GetCars(ctx context.Context, providerID string) (cars []domain.Car, found bool, err error)
	SetCars(ctx context.Context, providerID string, cars []domain.Car) error
	GetPromotions(ctx context.Context, providerID string) (promotions []domain.Promotion, found bool, err error)
	SetPromotions(ctx context.Context, providerID string, promotions []domain.Promotion) error
	Invalidate(ctx context.Context, providerID string) error
}

// Metrics интерфейс для учета попаданий в кэш
type Metrics interface {
	CacheLookup(listing string, hit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
