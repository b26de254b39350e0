package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarType тип кузова
type CarType string

const (
	CarTypeSedan       CarType = "Sedan"
	CarTypeSUV         CarType = "SUV"
	CarTypeHatchback   CarType = "Hatchback"
	CarTypeTruck       CarType = "Truck"
	CarTypeConvertible CarType = "Convertible"
	CarTypeVan         CarType = "Van"
)

// IsValid returns true if the car type is one of the known types
func (t CarType) IsValid() bool {
	switch t {
	case CarTypeSedan, CarTypeSUV, CarTypeHatchback, CarTypeTruck, CarTypeConvertible, CarTypeVan:
		return true
	}
	return false
}

// Car автомобиль провайдера. Только для чтения
type Car struct {
	ID              string
	Brand           string
	Model           string
	Type            CarType
	FuelType        string
	Year            int
	SeatingCapacity int
	TopSpeed        int
	PricePerDay     decimal.Decimal
	Description     string
	Images          []string
	ProviderID      string
}

// Provider компания-арендодатель (точка выдачи)
type Provider struct {
	ID         string
	Name       string
	Address    string
	District   string
	Province   string
	PostalCode string
	Phone      string
	Region     string
}

// Promotion правило скидки провайдера.
// Окно действия, минимальная сумма и лимит скидки проверяются бэкендом при расчете цены.
type Promotion struct {
	ID                 string
	Title              string
	Description        string
	DiscountPercentage decimal.Decimal
	MaxDiscountAmount  decimal.Decimal
	MinPurchaseAmount  decimal.Decimal
	AvailableQuantity  int
	StartDate          time.Time
	EndDate            time.Time
	ProviderID         string
}

// IsProviderAgnostic returns true if the promotion is not bound to a provider
func (p *Promotion) IsProviderAgnostic() bool {
	return p.ProviderID == ""
}

// FindCar ищет машину по id в списке
func FindCar(cars []Car, id string) (*Car, bool) {
	for i := range cars {
		if cars[i].ID == id {
			return &cars[i], true
		}
	}
	return nil, false
}

// FindPromotion ищет промоакцию по id в списке
func FindPromotion(promotions []Promotion, id string) (*Promotion, bool) {
	for i := range promotions {
		if promotions[i].ID == id {
			return &promotions[i], true
		}
	}
	return nil, false
}
