package rentalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// envelope общий формат ответа бэкенда: {success, data?, message?}
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Ref ссылка на сущность: бэкенд отдает либо строковый id, либо встроенный объект
type Ref[T any] struct {
	ID    string
	Value *T
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.ID)
	}

	var idOnly struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &idOnly); err != nil {
		return err
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}

	r.Value = &v
	r.ID = idOnly.MongoID
	if r.ID == "" {
		r.ID = idOnly.ID
	}
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// Time дата бэкенда: ISO 8601 с временем или просто YYYY-MM-DD
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, domain.DateFormat} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported date format %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ProviderDTO провайдер в формате бэкенда
type ProviderDTO struct {
	MongoID    string `json:"_id,omitempty"`
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	District   string `json:"district"`
	Province   string `json:"province"`
	PostalCode string `json:"postalcode"`
	Tel        string `json:"tel"`
	Region     string `json:"region"`
}

// CarDTO автомобиль в формате бэкенда
type CarDTO struct {
	MongoID         string           `json:"_id,omitempty"`
	ID              string           `json:"id,omitempty"`
	Brand           string           `json:"brand"`
	Model           string           `json:"model"`
	Type            string           `json:"type"`
	FuelType        string           `json:"fuelType"`
	Year            int              `json:"year"`
	SeatingCapacity int              `json:"seatingCapacity"`
	TopSpeed        int              `json:"topSpeed"`
	PricePerDay     decimal.Decimal  `json:"pricePerDay"`
	Description     string           `json:"description"`
	Images          []string         `json:"images"`
	Provider        Ref[ProviderDTO] `json:"provider"`
}

// PromotionDTO промоакция в формате бэкенда
type PromotionDTO struct {
	MongoID            string           `json:"_id,omitempty"`
	ID                 string           `json:"id,omitempty"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	MaxDiscountAmount  decimal.Decimal  `json:"maxDiscountAmount"`
	MinPurchaseAmount  decimal.Decimal  `json:"minPurchaseAmount"`
	Amount             int              `json:"amount"`
	StartDate          Time             `json:"startDate"`
	EndDate            Time             `json:"endDate"`
	Provider           Ref[ProviderDTO] `json:"provider"`
}

// UserDTO пользователь, встроенный в бронирование
type UserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingDTO бронирование в формате бэкенда
type BookingDTO struct {
	MongoID    string            `json:"_id,omitempty"`
	ID         string            `json:"id,omitempty"`
	StartDate  Time              `json:"start_date"`
	EndDate    Time              `json:"end_date"`
	User       Ref[UserDTO]      `json:"user"`
	Car        Ref[CarDTO]       `json:"car"`
	Provider   Ref[ProviderDTO]  `json:"provider"`
	Promotion  Ref[PromotionDTO] `json:"promotion"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Status     string            `json:"status"`
	CreatedAt  Time              `json:"createdAt"`
}

// PriceCalculationDTO ответ эндпоинта расчета цены
type PriceCalculationDTO struct {
	NumberOfDays       int              `json:"numberOfDays"`
	PricePerDay        decimal.Decimal  `json:"pricePerDay"`
	BasePrice          decimal.Decimal  `json:"basePrice"`
	FinalPrice         decimal.Decimal  `json:"finalPrice"`
	DiscountAmount     *decimal.Decimal `json:"discountAmount,omitempty"`
	PromoID            *string          `json:"promoId,omitempty"`
	PromoName          *string          `json:"promoName,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}

// Request модели

// CreateBookingRequest тело POST /cars/{carId}/bookings
type CreateBookingRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	ProviderID string  `json:"providerId,omitempty"`
	CarID      string  `json:"carId"`
	PromoID    *string `json:"promoId,omitempty"`
}

// UpdateBookingRequest тело PUT /bookings/{id}.
// Для смены статуса заполняется только Status.
type UpdateBookingRequest struct {
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	ProviderID *string `json:"providerId,omitempty"`
	CarID      *string `json:"carId,omitempty"`
	PromoID    *string `json:"promoId,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// CalculatePriceRequest тело POST /cars/calculate-price
type CalculatePriceRequest struct {
	CarID        string  `json:"carId"`
	NumberOfDays int     `json:"numberOfDays"`
	PromoID      *string `json:"promoId,omitempty"`
}

// Методы конвертации

func pickID(mongoID, id string) string {
	if mongoID != "" {
		return mongoID
	}
	return id
}

func (p *ProviderDTO) toDomain(id string) *domain.Provider {
	if id == "" {
		id = pickID(p.MongoID, p.ID)
	}
	return &domain.Provider{
		ID:         id,
		Name:       p.Name,
		Address:    p.Address,
		District:   p.District,
		Province:   p.Province,
		PostalCode: p.PostalCode,
		Phone:      p.Tel,
		Region:     p.Region,
	}
}

func (c *CarDTO) toDomain(id string) *domain.Car {
	if id == "" {
		id = pickID(c.MongoID, c.ID)
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Car{
		ID:              id,
		Brand:           c.Brand,
		Model:           c.Model,
		Type:            domain.CarType(c.Type),
		FuelType:        c.FuelType,
		Year:            c.Year,
		SeatingCapacity: c.SeatingCapacity,
		TopSpeed:        c.TopSpeed,
		PricePerDay:     c.PricePerDay,
		Description:     c.Description,
		Images:          images,
		ProviderID:      c.Provider.ID,
	}
}

func (p *PromotionDTO) toDomain(id string) *domain.Promotion {
	if id == "" {
		id = pickID(p.MongoID, p.ID)
	}
	return &domain.Promotion{
		ID:                 id,
		Title:              p.Title,
		Description:        p.Description,
		DiscountPercentage: p.DiscountPercentage,
		MaxDiscountAmount:  p.MaxDiscountAmount,
		MinPurchaseAmount:  p.MinPurchaseAmount,
		AvailableQuantity:  p.Amount,
		StartDate:          p.StartDate.Time,
		EndDate:            p.EndDate.Time,
		ProviderID:         p.Provider.ID,
	}
}

func (b *BookingDTO) toDomain() *domain.Booking {
	booking := &domain.Booking{
		ID:         pickID(b.MongoID, b.ID),
		UserID:     b.User.ID,
		StartDate:  b.StartDate.Time,
		EndDate:    b.EndDate.Time,
		CarID:      b.Car.ID,
		ProviderID: b.Provider.ID,
		TotalPrice: b.TotalPrice,
		Status:     domain.BookingStatus(b.Status),
		CreatedAt:  b.CreatedAt.Time,
	}

	if b.Car.Value != nil {
		booking.Car = b.Car.Value.toDomain(b.Car.ID)
		// Провайдер часто приходит только внутри машины
		if booking.ProviderID == "" {
			booking.ProviderID = booking.Car.ProviderID
		}
	}
	if b.Provider.Value != nil {
		booking.Provider = b.Provider.Value.toDomain(b.Provider.ID)
	}
	if b.Promotion.ID != "" {
		promoID := b.Promotion.ID
		booking.PromotionID = &promoID
	}
	if b.Promotion.Value != nil {
		booking.Promotion = b.Promotion.Value.toDomain(b.Promotion.ID)
	}
	if booking.Status == "" {
		booking.Status = domain.StatusPending
	}

	return booking
}

func (p *PriceCalculationDTO) toDomain() *domain.PriceCalculation {
	return &domain.PriceCalculation{
		NumberOfDays:       p.NumberOfDays,
		PricePerDay:        p.PricePerDay,
		BasePrice:          p.BasePrice,
		FinalPrice:         p.FinalPrice,
		DiscountAmount:     p.DiscountAmount,
		PromotionID:        p.PromoID,
		PromotionName:      p.PromoName,
		DiscountPercentage: p.DiscountPercentage,
	}
}

// FormatDate форматирует дату для тела запроса (YYYY-MM-DD)
func FormatDate(t time.Time) string {
	return t.Format(domain.DateFormat)
}
