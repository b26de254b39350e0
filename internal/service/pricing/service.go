package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

// Service сервис расчета стоимости аренды.
// Итоговую цену всегда считает бэкенд, сервис только передает параметры.
type Service struct {
	client RentalClient
	logger Logger
}

// NewService создает новый экземпляр сервиса расчета цены
func NewService(client RentalClient, logger Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// QuoteRequest запрос расчета цены по диапазону дат
type QuoteRequest struct {
	CarID   string
	Start   time.Time
	End     time.Time
	PromoID *string
}

// CalculatePrice запрашивает у бэкенда цену аренды машины на numberOfDays дней.
// Сессия и входные данные проверяются до сетевого вызова, сессия первой.
func (s *Service) CalculatePrice(
	ctx context.Context,
	sess session.Session,
	carID string,
	numberOfDays int,
	promoID *string,
) (*domain.PriceCalculation, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	carID = strings.TrimSpace(carID)
	if carID == "" {
		return nil, fmt.Errorf("%w: car id is required", ErrInvalidInput)
	}
	if numberOfDays <= 0 {
		return nil, fmt.Errorf("%w: number of days must be positive, got %d", ErrInvalidInput, numberOfDays)
	}

	req := rentalapi.CalculatePriceRequest{
		CarID:        carID,
		NumberOfDays: numberOfDays,
	}
	if promoID != nil && strings.TrimSpace(*promoID) != "" {
		id := strings.TrimSpace(*promoID)
		req.PromoID = &id
	}

	s.logger.Info("CalculatePrice: car=%s days=%d promo=%v", carID, numberOfDays, req.PromoID != nil)

	result, err := s.client.CalculatePrice(ctx, token, req)
	if err != nil {
		return nil, s.mapError(carID, err)
	}

	return result, nil
}

// Quote считает число дней по диапазону дат и запрашивает цену
func (s *Service) Quote(ctx context.Context, sess session.Session, req QuoteRequest) (*domain.PriceCalculation, error) {
	if _, err := sess.BearerToken(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDateRange(req.Start, req.End); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.CalculatePrice(ctx, sess, req.CarID, domain.DayCount(req.Start, req.End), req.PromoID)
}

func (s *Service) mapError(carID string, err error) error {
	switch {
	case errors.Is(err, rentalapi.ErrUnauthorized):
		s.logger.Warn("CalculatePrice: backend rejected token for car=%s", carID)
		return fmt.Errorf("%w: %v", session.ErrAuthRequired, err)
	case errors.Is(err, rentalapi.ErrForbidden):
		msg, _ := rentalapi.MessageOf(err)
		s.logger.Warn("CalculatePrice: access denied for car=%s: %s", carID, msg)
		return domain.ForbiddenFrom(msg, err)
	case errors.Is(err, rentalapi.ErrRejected):
		msg, _ := rentalapi.MessageOf(err)
		s.logger.Warn("CalculatePrice: rejected for car=%s: %s", carID, msg)
		if msg == "" {
			return ErrPriceCalculation
		}
		return &domain.RejectedError{Message: msg}
	default:
		s.logger.Error("CalculatePrice: backend error for car=%s: %v", carID, err)
		return fmt.Errorf("%w: %v", ErrPriceCalculation, err)
	}
}
