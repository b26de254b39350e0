package update_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMixedUpdate        = "статус и перенос бронирования меняются разными запросами"
	msgEmptyUpdate        = "нет полей для обновления"
	msgStatusUpdated      = "Booking status updated successfully"
)

type Handler struct {
	service BookingService
	form    BookingFormUseCase
	logger  Logger
}

func NewHandler(service BookingService, form BookingFormUseCase, logger Logger) *Handler {
	return &Handler{
		service: service,
		form:    form,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("PUT /bookings/{id} - Validation failed: booking_id=%s, fields=%v", bookingID, fields)
		handlers.RespondFailure(w, http.StatusBadRequest, handlers.Failure{Error: msgInvalidRequestBody, Fields: fields})
		return
	}

	switch {
	case req.IsMixed():
		handlers.RespondBadRequest(w, msgMixedUpdate)
	case req.IsStatusOnly():
		h.updateStatus(w, r, bookingID, domain.BookingStatus(*req.Status))
	case req.hasRescheduleFields():
		h.reschedule(w, r, bookingID, &req)
	default:
		handlers.RespondBadRequest(w, msgEmptyUpdate)
	}
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, bookingID string, status domain.BookingStatus) {
	sess, _ := middleware.GetSession(r)

	booking, err := h.service.UpdateStatus(r.Context(), sess, bookingID, status)
	if err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("PUT /bookings/{id} - Failed to update status: booking_id=%s, status=%s, code=%d, error=%v",
			bookingID, status, code, err)
		return
	}

	h.logger.Info("PUT /bookings/{id} - Status updated: booking_id=%s, status=%s", bookingID, status)
	handlers.RespondJSON(w, http.StatusOK, &UpdateBookingResponse{
		Booking: models.FromDomainBooking(booking),
		Message: msgStatusUpdated,
	})
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request, bookingID string, req *UpdateBookingRequest) {
	sess, _ := middleware.GetSession(r)

	current, err := h.service.GetOne(r.Context(), sess, bookingID)
	if err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("PUT /bookings/{id} - Failed to load booking: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(current)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.form.Reschedule(r.Context(), sess, current, useCaseReq)
	if err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("PUT /bookings/{id} - Failed to reschedule: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking rescheduled: booking_id=%s, user_id=%s", bookingID, sess.UserID)
	handlers.RespondJSON(w, http.StatusOK, &UpdateBookingResponse{
		Booking: models.FromDomainBooking(result.Booking),
		Message: result.Message,
	})
}
