package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

const (
	listingCars       = "cars"
	listingPromotions = "promotions"
)

// Service сервис чтения машин и промоакций провайдера
type Service struct {
	client  RentalClient
	cache   ListingCache
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса каталога.
// cache и metrics могут быть nil.
func NewService(client RentalClient, cache ListingCache, metrics Metrics, logger Logger) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// GetCarsByProvider возвращает машины провайдера. Пустой список допустим
func (s *Service) GetCarsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Car, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}

	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cars, found, err := s.cache.GetCars(ctx, providerID)
		if err != nil {
			// Кэш не обязателен: при ошибке идем в бэкенд
			s.logger.Warn("GetCarsByProvider: cache read failed for provider=%s: %v", providerID, err)
		}
		s.observeCache(listingCars, found)
		if found {
			return nonNilCars(cars), nil
		}
	}

	cars, err := s.client.GetProviderCars(ctx, token, providerID)
	if err != nil {
		return nil, s.mapError("GetCarsByProvider", providerID, err)
	}
	cars = nonNilCars(cars)

	if s.cache != nil {
		if err := s.cache.SetCars(ctx, providerID, cars); err != nil {
			s.logger.Warn("GetCarsByProvider: cache write failed for provider=%s: %v", providerID, err)
		}
	}

	s.logger.Info("GetCarsByProvider: fetched %d cars for provider=%s", len(cars), providerID)
	return cars, nil
}

// GetPromotionsByProvider возвращает промоакции провайдера как есть.
// Фильтрация по датам и минимальной сумме не выполняется: применимость
// промоакции проверяет бэкенд при расчете цены.
func (s *Service) GetPromotionsByProvider(ctx context.Context, sess session.Session, providerID string) ([]domain.Promotion, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}

	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		promotions, found, err := s.cache.GetPromotions(ctx, providerID)
		if err != nil {
			s.logger.Warn("GetPromotionsByProvider: cache read failed for provider=%s: %v", providerID, err)
		}
		s.observeCache(listingPromotions, found)
		if found {
			return nonNilPromotions(promotions), nil
		}
	}

	promotions, err := s.client.GetProviderPromotions(ctx, token, providerID)
	if err != nil {
		return nil, s.mapError("GetPromotionsByProvider", providerID, err)
	}
	promotions = nonNilPromotions(promotions)

	if s.cache != nil {
		if err := s.cache.SetPromotions(ctx, providerID, promotions); err != nil {
			s.logger.Warn("GetPromotionsByProvider: cache write failed for provider=%s: %v", providerID, err)
		}
	}

	s.logger.Info("GetPromotionsByProvider: fetched %d promotions for provider=%s", len(promotions), providerID)
	return promotions, nil
}

// InvalidateListings удаляет машины и промоакции провайдера из кэша.
// Без кэша ничего не делает
func (s *Service) InvalidateListings(ctx context.Context, providerID string) error {
	providerID = strings.TrimSpace(providerID)
	if s.cache == nil || providerID == "" {
		return nil
	}
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		return fmt.Errorf("%w: invalidate provider=%s: %v", ErrCache, providerID, err)
	}
	s.logger.Info("InvalidateListings: dropped cached listings for provider=%s", providerID)
	return nil
}

func (s *Service) observeCache(listing string, hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(listing, hit)
	}
}

func (s *Service) mapError(op, providerID string, err error) error {
	switch {
	case errors.Is(err, rentalapi.ErrUnauthorized):
		s.logger.Warn("%s: backend rejected token for provider=%s", op, providerID)
		return fmt.Errorf("%w: %v", session.ErrAuthRequired, err)
	case errors.Is(err, rentalapi.ErrForbidden):
		msg, _ := rentalapi.MessageOf(err)
		s.logger.Warn("%s: access denied for provider=%s: %s", op, providerID, msg)
		return domain.ForbiddenFrom(msg, err)
	case errors.Is(err, rentalapi.ErrNotFound):
		s.logger.Warn("%s: provider=%s not found", op, providerID)
		return ErrProviderNotFound
	default:
		s.logger.Error("%s: backend error for provider=%s: %v", op, providerID, err)
		return fmt.Errorf("%w: %s - %v", ErrUnavailable, op, err)
	}
}

func nonNilCars(cars []domain.Car) []domain.Car {
	if cars == nil {
		return []domain.Car{}
	}
	return cars
}

func nonNilPromotions(promotions []domain.Promotion) []domain.Promotion {
	if promotions == nil {
		return []domain.Promotion{}
	}
	return promotions
}
