package get_provider_promotions

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type CatalogService interface {
	GetPromotionsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Promotion, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
