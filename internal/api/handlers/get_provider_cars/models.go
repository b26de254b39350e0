package get_provider_cars

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// CarResponse HTTP response model
type CarResponse struct {
	ID              string          `json:"id"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Type            string          `json:"type"`
	FuelType        string          `json:"fuelType"`
	Year            int             `json:"year"`
	SeatingCapacity int             `json:"seatingCapacity"`
	TopSpeed        int             `json:"topSpeed"`
	PricePerDay     decimal.Decimal `json:"pricePerDay"`
	Description     string          `json:"description,omitempty"`
	Images          []string        `json:"images"`
	ProviderID      string          `json:"providerId"`
}

// CarListResponse HTTP response model
type CarListResponse struct {
	Cars  []CarResponse `json:"cars"`
	Count int           `json:"count"`
}

// FromDomainCars конвертирует список машин в HTTP response
func FromDomainCars(cars []domain.Car) *CarListResponse {
	resp := &CarListResponse{
		Cars:  make([]CarResponse, 0, len(cars)),
		Count: len(cars),
	}

	for _, car := range cars {
		images := car.Images
		if images == nil {
			images = []string{}
		}
		resp.Cars = append(resp.Cars, CarResponse{
			ID:              car.ID,
			Brand:           car.Brand,
			Model:           car.Model,
			Type:            string(car.Type),
			FuelType:        car.FuelType,
			Year:            car.Year,
			SeatingCapacity: car.SeatingCapacity,
			TopSpeed:        car.TopSpeed,
			PricePerDay:     car.PricePerDay,
			Description:     car.Description,
			Images:          images,
			ProviderID:      car.ProviderID,
		})
	}

	return resp
}
