package get_provider_promotions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// PromotionResponse HTTP response model
type PromotionResponse struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	MaxDiscountAmount  decimal.Decimal `json:"maxDiscountAmount"`
	MinPurchaseAmount  decimal.Decimal `json:"minPurchaseAmount"`
	AvailableQuantity  int             `json:"availableQuantity"`
	StartDate          string          `json:"startDate,omitempty"`
	EndDate            string          `json:"endDate,omitempty"`
	ProviderID         *string         `json:"providerId,omitempty"`
}

// PromotionListResponse HTTP response model
type PromotionListResponse struct {
	Promotions []PromotionResponse `json:"promotions"`
	Count      int                 `json:"count"`
}

// FromDomainPromotions конвертирует список промоакций в HTTP response.
// Промоакции без провайдера отдаются без providerId.
func FromDomainPromotions(promotions []domain.Promotion) *PromotionListResponse {
	resp := &PromotionListResponse{
		Promotions: make([]PromotionResponse, 0, len(promotions)),
		Count:      len(promotions),
	}

	for i := range promotions {
		p := &promotions[i]
		item := PromotionResponse{
			ID:                 p.ID,
			Title:              p.Title,
			Description:        p.Description,
			DiscountPercentage: p.DiscountPercentage,
			MaxDiscountAmount:  p.MaxDiscountAmount,
			MinPurchaseAmount:  p.MinPurchaseAmount,
			AvailableQuantity:  p.AvailableQuantity,
			StartDate:          formatDate(p.StartDate),
			EndDate:            formatDate(p.EndDate),
		}
		if !p.IsProviderAgnostic() {
			providerID := p.ProviderID
			item.ProviderID = &providerID
		}
		resp.Promotions = append(resp.Promotions, item)
	}

	return resp
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateFormat)
}
