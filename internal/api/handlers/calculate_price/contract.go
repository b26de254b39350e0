package calculate_price

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type PricingService interface {
	Quote(ctx context.Context, sess session.Session, req pricing.QuoteRequest) (*domain.PriceCalculation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
