package bookings

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
)

// RentalClient интерфейс клиента бэкенда для работы с бронированиями
type RentalClient interface {
	CreateBooking(ctx context.Context, token, carID string, req rentalapi.CreateBookingRequest, idempotencyKey string) (*domain.Booking, error)
	GetBooking(ctx context.Context, token, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, token string) ([]*domain.Booking, error)
	UpdateBooking(ctx context.Context, token, id string, req rentalapi.UpdateBookingRequest) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, token, id string) error
}

// IntentRepository интерфейс хранилища ключей идемпотентности
type IntentRepository interface {
	Reserve(ctx context.Context, intent *domain.SubmitIntent) error
	GetByKey(ctx context.Context, userID, key string) (*domain.SubmitIntent, error)
	Complete(ctx context.Context, userID, key, bookingID string) error
	Release(ctx context.Context, userID, key string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
