package booking_form

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

// CatalogService интерфейс сервиса листингов провайдера
type CatalogService interface {
	GetCarsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Car, error)
	GetPromotionsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Promotion, error)
	InvalidateListings(ctx context.Context, providerID string) error
}

// PricingService интерфейс сервиса расчета цены
type PricingService interface {
	CalculatePrice(ctx context.Context, sess session.Session, carID string, numberOfDays int, promoID *string) (*domain.PriceCalculation, error)
}

// BookingService интерфейс сервиса бронирований
type BookingService interface {
	Create(ctx context.Context, sess session.Session, carID string, payload models.CreateBookingPayload, idempotencyKey string) (*domain.Booking, error)
	Update(ctx context.Context, sess session.Session, id string, payload models.UpdateBookingPayload) (*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
