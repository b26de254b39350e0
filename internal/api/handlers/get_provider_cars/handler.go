package get_provider_cars

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
)

const msgInvalidProviderID = "некорректный ID провайдера"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/cars
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]
	if providerID == "" {
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	sess, _ := middleware.GetSession(r)

	cars, err := h.service.GetCarsByProvider(r.Context(), sess, providerID)
	if err != nil {
		status := handlers.RespondServiceError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /providers/{id}/cars - Failed to get cars: provider_id=%s, error=%v", providerID, err)
		} else {
			h.logger.Warn("GET /providers/{id}/cars - Request rejected: provider_id=%s, status=%d, error=%v", providerID, status, err)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/cars - Cars retrieved successfully: provider_id=%s, count=%d", providerID, len(cars))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCars(cars))
}
