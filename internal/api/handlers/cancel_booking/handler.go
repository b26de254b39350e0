package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgCancelled        = "Booking deleted successfully"
)

type Handler struct {
	service BookingService
	pollers PaymentPollers
	logger  Logger
}

// NewHandler создает handler отмены. pollers может быть nil
func NewHandler(service BookingService, pollers PaymentPollers, logger Logger) *Handler {
	return &Handler{
		service: service,
		pollers: pollers,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		h.logger.Warn("DELETE /bookings/{id} - Missing booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sess, _ := middleware.GetSession(r)

	err := h.service.Delete(r.Context(), sess, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			status := handlers.RespondServiceError(w, err)
			h.logger.Warn("DELETE /bookings/{id} - Failed to cancel booking: booking_id=%s, status=%d, error=%v",
				bookingID, status, err)
		}
		return
	}

	if h.pollers != nil {
		h.pollers.Release(sess, bookingID)
	}

	h.logger.Info("DELETE /bookings/{id} - Booking cancelled successfully: booking_id=%s, user_id=%s",
		bookingID, sess.UserID)
	handlers.RespondJSON(w, http.StatusOK, &CancelBookingResponse{ID: bookingID, Message: msgCancelled})
}
