package get_payment_status

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
)

const msgInvalidBookingID = "некорректный ID бронирования"

type Handler struct {
	registry PaymentRegistry
	logger   Logger
}

func NewHandler(registry PaymentRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/payment
// Запускает опрос статуса, если он еще не идет, и отдает текущее состояние.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sess, _ := middleware.GetSession(r)

	poller, err := h.registry.GetOrStart(sess, bookingID)
	if err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("GET /bookings/{id}/payment - Failed to start poller: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	snapshot, err := poller.Refresh(r.Context())
	if err != nil {
		// Опрос недоступного бронирования не держим
		h.registry.Release(sess, bookingID)
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("GET /bookings/{id}/payment - Failed to fetch status: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	h.logger.Info("GET /bookings/{id}/payment - Status: booking_id=%s, status=%s", bookingID, snapshot.Status)
	handlers.RespondJSON(w, http.StatusOK, snapshot)
}
