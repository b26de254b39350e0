package calculate_price

import (
	"net/http"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/price-quotes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PriceQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /price-quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("POST /price-quotes - Validation failed: %v", fields)
		handlers.RespondFailure(w, http.StatusBadRequest, handlers.Failure{Error: msgInvalidRequestBody, Fields: fields})
		return
	}

	quoteReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /price-quotes - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	sess, _ := middleware.GetSession(r)

	price, err := h.service.Quote(r.Context(), sess, quoteReq)
	if err != nil {
		status := handlers.RespondServiceError(w, err)
		h.logger.Warn("POST /price-quotes - Failed to calculate price: car_id=%s, status=%d, error=%v",
			quoteReq.CarID, status, err)
		return
	}

	h.logger.Info("POST /price-quotes - Price calculated: car_id=%s, days=%d, final=%s",
		quoteReq.CarID, price.NumberOfDays, price.FinalPrice.String())
	handlers.RespondJSON(w, http.StatusOK, FromDomainPrice(price))
}
