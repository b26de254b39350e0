package get_provider_promotions

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

// Handle GET /api/v1/providers/{providerId}/promotions
// Список не фильтруется: применимость промоакции проверяет бэкенд при расчете цены.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]
	if providerID == "" {
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	sess, _ := middleware.GetSession(r)

	promotions, err := h.service.GetPromotionsByProvider(r.Context(), sess, providerID)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/promotions - Failed: provider_id=%s, error=%v", providerID, err)
		handlers.RespondServiceError(w, err)
		return
	}

	h.logger.Info("GET /providers/{id}/promotions - Promotions retrieved: provider_id=%s, count=%d",
		providerID, len(promotions))
	handlers.RespondJSON(w, http.StatusOK, FromDomainPromotions(promotions))
}
