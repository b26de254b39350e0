package get_provider_cars

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type CatalogService interface {
	GetCarsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Car, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
