package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/catalog"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

// Failure нормализованная ошибка для ответа клиенту
type Failure struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// FailureFromError переводит любую ошибку сервисов в HTTP-статус и Failure.
// Текст бизнес-отказа бэкенда передается без изменений.
func FailureFromError(err error) (int, Failure) {
	var (
		rejected   *domain.RejectedError
		validation *booking_form.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusOK, Failure{Success: true}

	case errors.Is(err, session.ErrAuthRequired):
		return http.StatusUnauthorized, failure(session.ErrAuthRequired.Error())

	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, failure(domain.ErrAccessDenied.Error())

	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity, failure(rejected.Message)

	case errors.As(err, &validation):
		f := failure(booking_form.ErrValidation.Error())
		f.Fields = validation.Fields
		return http.StatusBadRequest, f

	case errors.Is(err, bookings.ErrInvalidInput),
		errors.Is(err, bookings.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, booking_form.ErrUnknownSelection),
		errors.Is(err, booking_form.ErrNoCarAvailable),
		errors.Is(err, domain.ErrDatesRequired),
		errors.Is(err, domain.ErrEndNotAfterStart):
		return http.StatusBadRequest, failure(err.Error())

	case errors.Is(err, bookings.ErrBookingNotFound):
		return http.StatusNotFound, failure(bookings.ErrBookingNotFound.Error())
	case errors.Is(err, catalog.ErrProviderNotFound):
		return http.StatusNotFound, failure(catalog.ErrProviderNotFound.Error())

	case errors.Is(err, bookings.ErrInvalidTransition),
		errors.Is(err, bookings.ErrDuplicateSubmit),
		errors.Is(err, booking_form.ErrSubmitInProgress),
		errors.Is(err, payment_status.ErrAlreadySettled),
		errors.Is(err, payment_status.ErrSimulationInProgress):
		return http.StatusConflict, failure(err.Error())

	case errors.Is(err, bookings.ErrUnavailable):
		return http.StatusBadGateway, failure(bookings.ErrUnavailable.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		return http.StatusBadGateway, failure(catalog.ErrUnavailable.Error())
	case errors.Is(err, pricing.ErrPriceCalculation):
		return http.StatusBadGateway, failure(pricing.ErrPriceCalculation.Error())

	case errors.Is(err, payment_status.ErrStopped):
		return http.StatusServiceUnavailable, failure(payment_status.ErrStopped.Error())

	default:
		return http.StatusInternalServerError, failure(msgInternalError)
	}
}

// RespondServiceError отвечает клиенту нормализованной ошибкой сервиса
func RespondServiceError(w http.ResponseWriter, err error) int {
	status, f := FailureFromError(err)
	RespondFailure(w, status, f)
	return status
}

func failure(message string) Failure {
	return Failure{Success: false, Error: message}
}
