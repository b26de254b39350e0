package create_booking

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgKeyTooLong         = "заголовок Idempotency-Key длиннее 64 символов"

	headerIdempotencyKey = "Idempotency-Key"
)

type Handler struct {
	useCase BookingFormUseCase
	logger  Logger
}

func NewHandler(useCase BookingFormUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", fields)
		handlers.RespondFailure(w, http.StatusBadRequest, handlers.Failure{Error: msgInvalidRequestBody, Fields: fields})
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if len(key) > domain.MaxIdempotencyKeyLength {
		h.logger.Warn("POST /bookings - Idempotency key too long: length=%d", len(key))
		handlers.RespondBadRequest(w, msgKeyTooLong)
		return
	}

	sess, _ := middleware.GetSession(r)

	result, err := h.useCase.Create(r.Context(), sess, useCaseReq, key)
	if err != nil {
		status := handlers.RespondServiceError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to create booking: provider_id=%s, car_id=%s, error=%v",
				useCaseReq.ProviderID, useCaseReq.CarID, err)
		} else {
			h.logger.Warn("POST /bookings - Booking rejected: provider_id=%s, car_id=%s, status=%d, error=%v",
				useCaseReq.ProviderID, useCaseReq.CarID, status, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, car_id=%s",
		result.Booking.ID, sess.UserID, useCaseReq.CarID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResult(result))
}
