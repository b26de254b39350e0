package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// Request модели

// CreateBookingPayload данные для создания бронирования
type CreateBookingPayload struct {
	StartDate  time.Time
	EndDate    time.Time
	ProviderID string
	PromoID    *string
}

// UpdateBookingPayload данные для полного переноса бронирования.
// PromoID = nil оставляет промоакцию без изменений, пустая строка снимает ее.
type UpdateBookingPayload struct {
	StartDate  time.Time
	EndDate    time.Time
	ProviderID string
	CarID      string
	PromoID    *string
}

// Response модели

// CarResponse краткие данные машины в бронировании
type CarResponse struct {
	ID          string          `json:"id"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Type        string          `json:"type"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	Images      []string        `json:"images"`
}

// ProviderResponse краткие данные провайдера в бронировании
type ProviderResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"tel"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	StartDate   string          `json:"startDate"` // "2024-05-01"
	EndDate     string          `json:"endDate"`
	Days        int             `json:"days"`
	CarID       string          `json:"carId"`
	ProviderID  string          `json:"providerId"`
	PromotionID *string         `json:"promotionId,omitempty"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status"`

	// Встроенные объекты, если бэкенд их вернул
	Car      *CarResponse      `json:"car,omitempty"`
	Provider *ProviderResponse `json:"provider,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		StartDate:   formatDate(b.StartDate),
		EndDate:     formatDate(b.EndDate),
		CarID:       b.CarID,
		ProviderID:  b.ProviderID,
		PromotionID: b.PromotionID,
		TotalPrice:  b.TotalPrice,
		Status:      string(b.Status),
	}

	if !b.StartDate.IsZero() && !b.EndDate.IsZero() {
		resp.Days = b.Days()
	}

	if b.Car != nil {
		resp.Car = &CarResponse{
			ID:          b.Car.ID,
			Brand:       b.Car.Brand,
			Model:       b.Car.Model,
			Type:        string(b.Car.Type),
			PricePerDay: b.Car.PricePerDay,
			Images:      b.Car.Images,
		}
	}

	if b.Provider != nil {
		resp.Provider = &ProviderResponse{
			ID:      b.Provider.ID,
			Name:    b.Provider.Name,
			Address: b.Provider.Address,
			Phone:   b.Provider.Phone,
		}
	}

	if !b.CreatedAt.IsZero() {
		createdAt := b.CreatedAt
		resp.CreatedAt = &createdAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, bool) {
	s := domain.BookingStatus(status)
	return s, s.IsValid()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateFormat)
}
