package simulate_payment

import (
	"encoding/json"
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

// Handle POST /api/v1/bookings/{bookingId}/payment/simulate
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
		h.logger.Warn("POST /bookings/{id}/payment/simulate - Failed to start poller: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	snapshot, err := poller.SimulatePayment(r.Context())
	if err != nil {
		status, failure := handlers.FailureFromError(err)
		h.logger.Warn("POST /bookings/{id}/payment/simulate - Payment failed: booking_id=%s, code=%d, error=%v",
			bookingID, status, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(&SimulatePaymentFailure{
			Success: false,
			Error:   failure.Error,
			Payment: snapshot,
		})
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/simulate - Payment completed: booking_id=%s, user_id=%s",
		bookingID, sess.UserID)
	handlers.RespondJSON(w, http.StatusOK, snapshot)
}
