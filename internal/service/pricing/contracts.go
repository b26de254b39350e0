package pricing

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
)

// RentalClient интерфейс клиента бэкенда для расчета цены
type RentalClient interface {
	CalculatePrice(ctx context.Context, token string, req rentalapi.CalculatePriceRequest) (*domain.PriceCalculation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
