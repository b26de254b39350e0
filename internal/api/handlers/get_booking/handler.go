package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		h.logger.Warn("GET /bookings/{id} - Missing booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sess, _ := middleware.GetSession(r)

	// Бэкенд сам проверит права доступа к бронированию
	booking, err := h.service.GetOne(r.Context(), sess, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			status := handlers.RespondServiceError(w, err)
			h.logger.Warn("GET /bookings/{id} - Failed to get booking: booking_id=%s, status=%d, error=%v",
				bookingID, status, err)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%s, user_id=%s",
		bookingID, sess.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
