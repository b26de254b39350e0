package get_user_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
)

const (
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/bookings
// Администратор получает все бронирования, остальные пользователи только свои.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем status из query параметров (опционально)
	var statusFilter *domain.BookingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := models.ToDomainBookingStatus(raw)
		if !ok {
			h.logger.Warn("GET /bookings - Invalid status filter: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		statusFilter = &status
	}

	sess, _ := middleware.GetSession(r)

	bookings, err := h.service.GetAllForCurrentUser(r.Context(), sess)
	if err != nil {
		status := handlers.RespondServiceError(w, err)
		h.logger.Warn("GET /bookings - Failed to get bookings: user_id=%s, status=%d, error=%v",
			sess.UserID, status, err)
		return
	}

	if statusFilter != nil {
		filtered := make([]*domain.Booking, 0, len(bookings))
		for _, b := range bookings {
			if b.Status == *statusFilter {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}

	result := models.FromDomainBookingList(bookings)

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%s, count=%d",
		sess.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
