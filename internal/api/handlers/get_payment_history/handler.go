package get_payment_history

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
)

const msgInvalidBookingID = "некорректный ID бронирования"

type Handler struct {
	bookings BookingService
	journal  PaymentJournal
	logger   Logger
}

func NewHandler(bookings BookingService, journal PaymentJournal, logger Logger) *Handler {
	return &Handler{
		bookings: bookings,
		journal:  journal,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/payment/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sess, _ := middleware.GetSession(r)

	// Журнал локальный, поэтому доступ к бронированию проверяем через бэкенд
	if _, err := h.bookings.GetOne(r.Context(), sess, bookingID); err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("GET /bookings/{id}/payment/events - Booking check failed: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	events, err := h.journal.ListByBooking(r.Context(), bookingID)
	if err != nil {
		h.logger.Error("GET /bookings/{id}/payment/events - Failed to read journal: booking_id=%s, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id}/payment/events - History retrieved: booking_id=%s, count=%d",
		bookingID, len(events))
	handlers.RespondJSON(w, http.StatusOK, FromDomainEvents(bookingID, events))
}
