package calculate_price

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
)

// PriceQuoteRequest HTTP request model
type PriceQuoteRequest struct {
	CarID     string  `json:"carId" validate:"required"`
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"` // "2024-05-01"
	EndDate   string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	PromoID   *string `json:"promoId,omitempty"`
}

// PriceQuoteResponse HTTP response model
type PriceQuoteResponse struct {
	NumberOfDays       int              `json:"numberOfDays"`
	PricePerDay        decimal.Decimal  `json:"pricePerDay"`
	BasePrice          decimal.Decimal  `json:"basePrice"`
	FinalPrice         decimal.Decimal  `json:"finalPrice"`
	DiscountAmount     *decimal.Decimal `json:"discountAmount,omitempty"`
	PromotionID        *string          `json:"promotionId,omitempty"`
	PromotionName      *string          `json:"promotionName,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *PriceQuoteRequest) ToServiceRequest() (pricing.QuoteRequest, error) {
	start, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return pricing.QuoteRequest{}, err
	}
	end, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return pricing.QuoteRequest{}, err
	}

	req := pricing.QuoteRequest{
		CarID: strings.TrimSpace(r.CarID),
		Start: start,
		End:   end,
	}
	if r.PromoID != nil && strings.TrimSpace(*r.PromoID) != "" {
		req.PromoID = r.PromoID
	}
	return req, nil
}

// FromDomainPrice конвертирует расчет бэкенда в HTTP response
func FromDomainPrice(p *domain.PriceCalculation) *PriceQuoteResponse {
	resp := &PriceQuoteResponse{
		NumberOfDays:       p.NumberOfDays,
		PricePerDay:        p.PricePerDay,
		BasePrice:          p.BasePrice,
		FinalPrice:         p.FinalPrice,
		PromotionID:        p.PromotionID,
		PromotionName:      p.PromotionName,
		DiscountPercentage: p.DiscountPercentage,
	}
	// Нулевая скидка в ответ не попадает
	if p.HasDiscount() {
		resp.DiscountAmount = p.DiscountAmount
	}
	return resp
}
