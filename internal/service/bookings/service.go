package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/infra/storage/intent"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

// Service сервис жизненного цикла бронирования.
// Все операции выполняются от имени переданной сессии.
type Service struct {
	client  RentalClient
	intents IntentRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// intents может быть nil: тогда ключи идемпотентности только передаются бэкенду.
func NewService(
	client RentalClient,
	intents IntentRepository,
	logger Logger,
) *Service {
	return &Service{
		client:  client,
		intents: intents,
		logger:  logger,
	}
}

// Create создает бронирование машины carID.
// Повторный вызов с ключом, по которому бронирование уже создано, возвращает
// существующее бронирование без нового запроса к бэкенду.
func (s *Service) Create(
	ctx context.Context,
	sess session.Session,
	carID string,
	payload models.CreateBookingPayload,
	idempotencyKey string,
) (*domain.Booking, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	carID = strings.TrimSpace(carID)
	if carID == "" {
		return nil, fmt.Errorf("%w: car id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(payload.ProviderID) == "" {
		return nil, fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}
	if err := domain.ValidateDateRange(payload.StartDate, payload.EndDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(idempotencyKey) > domain.MaxIdempotencyKeyLength {
		return nil, fmt.Errorf("%w: idempotency key is longer than %d characters", ErrInvalidInput, domain.MaxIdempotencyKeyLength)
	}

	s.logger.Info("Create: creating booking car=%s provider=%s user=%s", carID, payload.ProviderID, sess.UserID)

	trackIntent := s.intents != nil && idempotencyKey != "" && sess.UserID != ""
	if trackIntent {
		existing, err := s.reserveIntent(ctx, sess, carID, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	req := rentalapi.CreateBookingRequest{
		StartDate:  rentalapi.FormatDate(payload.StartDate),
		EndDate:    rentalapi.FormatDate(payload.EndDate),
		ProviderID: payload.ProviderID,
		CarID:      carID,
	}
	if payload.PromoID != nil && *payload.PromoID != "" {
		req.PromoID = payload.PromoID
	}

	booking, err := s.client.CreateBooking(ctx, token, carID, req, idempotencyKey)
	if err != nil {
		if trackIntent {
			if relErr := s.intents.Release(ctx, sess.UserID, idempotencyKey); relErr != nil {
				s.logger.Error("Create: failed to release intent key=%s: %v", idempotencyKey, relErr)
			}
		}
		return nil, s.mapError("Create", carID, err)
	}

	if trackIntent {
		if err := s.intents.Complete(ctx, sess.UserID, idempotencyKey, booking.ID); err != nil {
			s.logger.Error("Create: failed to complete intent key=%s booking=%s: %v", idempotencyKey, booking.ID, err)
		}
	}

	s.logger.Info("Create: successfully created booking id=%s", booking.ID)
	return booking, nil
}

// GetOne получает бронирование по id
func (s *Service) GetOne(ctx context.Context, sess session.Session, id string) (*domain.Booking, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.client.GetBooking(ctx, token, id)
	if err != nil {
		return nil, s.mapError("GetOne", id, err)
	}

	return booking, nil
}

// GetAllForCurrentUser получает бронирования пользователя сессии.
// Для администратора бэкенд возвращает все бронирования.
func (s *Service) GetAllForCurrentUser(ctx context.Context, sess session.Session) ([]*domain.Booking, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	bookings, err := s.client.ListBookings(ctx, token)
	if err != nil {
		return nil, s.mapError("GetAllForCurrentUser", sess.UserID, err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	s.logger.Info("GetAllForCurrentUser: fetched %d bookings for user=%s", len(bookings), sess.UserID)
	return bookings, nil
}

// Update переносит бронирование: даты, провайдер, машина и промоакция
func (s *Service) Update(ctx context.Context, sess session.Session, id string, payload models.UpdateBookingPayload) (*domain.Booking, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if err := domain.ValidateDateRange(payload.StartDate, payload.EndDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	startDate := rentalapi.FormatDate(payload.StartDate)
	endDate := rentalapi.FormatDate(payload.EndDate)
	req := rentalapi.UpdateBookingRequest{
		StartDate: &startDate,
		EndDate:   &endDate,
		PromoID:   payload.PromoID,
	}
	if payload.ProviderID != "" {
		req.ProviderID = &payload.ProviderID
	}
	if payload.CarID != "" {
		req.CarID = &payload.CarID
	}

	s.logger.Info("Update: rescheduling booking id=%s to %s..%s", id, startDate, endDate)

	booking, err := s.client.UpdateBooking(ctx, token, id, req)
	if err != nil {
		return nil, s.mapError("Update", id, err)
	}

	s.logger.Info("Update: successfully updated booking id=%s", id)
	return booking, nil
}

// UpdateStatus меняет только статус оплаты бронирования.
// Переход назад отклоняется без запроса на изменение.
func (s *Service) UpdateStatus(ctx context.Context, sess session.Session, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.GetOne(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if current.Status == status {
		return current, nil
	}
	if !current.Status.CanTransitionTo(status) {
		s.logger.Warn("UpdateStatus: booking id=%s cannot move from %s to %s", id, current.Status, status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	token, _ := sess.BearerToken()
	statusValue := string(status)
	booking, err := s.client.UpdateBooking(ctx, token, id, rentalapi.UpdateBookingRequest{Status: &statusValue})
	if err != nil {
		return nil, s.mapError("UpdateStatus", id, err)
	}

	s.logger.Info("UpdateStatus: booking id=%s moved from %s to %s", id, current.Status, status)
	return booking, nil
}

// Delete отменяет бронирование
func (s *Service) Delete(ctx context.Context, sess session.Session, id string) error {
	token, err := sess.BearerToken()
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	if err := s.client.DeleteBooking(ctx, token, id); err != nil {
		return s.mapError("Delete", id, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", id)
	return nil
}

// Вспомогательные методы

// reserveIntent резервирует ключ идемпотентности.
// Возвращает уже созданное по этому ключу бронирование, если оно есть.
func (s *Service) reserveIntent(ctx context.Context, sess session.Session, carID, key string) (*domain.Booking, error) {
	existing, err := s.intents.GetByKey(ctx, sess.UserID, key)
	switch {
	case err == nil:
		if existing.Status == domain.IntentCompleted && existing.BookingID != nil {
			s.logger.Info("Create: key=%s already used for booking id=%s", key, *existing.BookingID)
			return s.GetOne(ctx, sess, *existing.BookingID)
		}
		s.logger.Warn("Create: key=%s is still being submitted", key)
		return nil, ErrDuplicateSubmit
	case !errors.Is(err, intent.ErrIntentNotFound):
		s.logger.Error("Create: failed to read intent key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Create - read intent: %v", ErrInternal, err)
	}

	err = s.intents.Reserve(ctx, &domain.SubmitIntent{
		Key:    key,
		UserID: sess.UserID,
		CarID:  carID,
	})
	if err != nil {
		if errors.Is(err, intent.ErrIntentExists) {
			return nil, ErrDuplicateSubmit
		}
		s.logger.Error("Create: failed to reserve intent key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Create - reserve intent: %v", ErrInternal, err)
	}

	return nil, nil
}

// mapError переводит ошибку клиента в ошибку сервиса.
// Ответы 4xx с сообщением считаются бизнес-отказом: текст сервера
// передается пользователю без изменений.
func (s *Service) mapError(op, ref string, err error) error {
	var apiErr *rentalapi.APIError
	errors.As(err, &apiErr)

	switch {
	case errors.Is(err, rentalapi.ErrUnauthorized):
		s.logger.Warn("%s: backend rejected token (ref=%s)", op, ref)
		return fmt.Errorf("%w: %v", session.ErrAuthRequired, err)
	case errors.Is(err, rentalapi.ErrForbidden):
		msg, _ := rentalapi.MessageOf(err)
		s.logger.Warn("%s: access denied (ref=%s): %s", op, ref, msg)
		return domain.ForbiddenFrom(msg, err)
	case errors.Is(err, rentalapi.ErrNotFound):
		s.logger.Warn("%s: booking ref=%s not found", op, ref)
		return ErrBookingNotFound
	case errors.Is(err, rentalapi.ErrRejected) && apiErr != nil && apiErr.Message != "":
		s.logger.Warn("%s: rejected (ref=%s): %s", op, ref, apiErr.Message)
		return &domain.RejectedError{Message: apiErr.Message}
	case errors.Is(err, rentalapi.ErrUnexpectedStatus) && apiErr != nil && apiErr.Message != "" &&
		apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError:
		s.logger.Warn("%s: rejected with status %d (ref=%s): %s", op, apiErr.StatusCode, ref, apiErr.Message)
		return &domain.RejectedError{Message: apiErr.Message}
	default:
		s.logger.Error("%s: backend error (ref=%s): %v", op, ref, err)
		return fmt.Errorf("%w: %s - %v", ErrUnavailable, op, err)
	}
}
