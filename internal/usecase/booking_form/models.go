package booking_form

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// Mode режим формы
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Имена полей формы в ошибках валидации
const (
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldProvider  = "providerId"
	FieldCar       = "carId"
)

// State снимок состояния формы
type State struct {
	Mode      Mode
	BookingID string

	StartDate   time.Time
	EndDate     time.Time
	ProviderID  string
	CarID       string
	PromotionID string

	Cars       []domain.Car
	Promotions []domain.Promotion

	// Price расчет бэкенда, Estimate предварительная оценка: дни * цена за день
	Price      *domain.PriceCalculation
	Estimate   *decimal.Decimal
	PriceError string

	FieldErrors map[string]string
	BannerError string
	Submitting  bool
}

// Request данные формы, пришедшие одним запросом
type Request struct {
	StartDate  time.Time
	EndDate    time.Time
	ProviderID string
	CarID      string
	PromoID    *string
}

// SubmitResult результат отправки формы
type SubmitResult struct {
	Booking *domain.Booking

	// RedirectTo куда перейти после отправки: оплата для нового бронирования
	RedirectTo string
	Message    string
}
