package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus статус оплаты бронирования
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusProcessing BookingStatus = "processing"
	StatusCompleted  BookingStatus = "completed"
	StatusFailed     BookingStatus = "failed"
)

// statusRank порядок статусов: переходы допускаются только вперед
var statusRank = map[BookingStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
}

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminal returns true if no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo проверяет, что переход из s в next идет вперед.
// Повторная установка того же статуса считается допустимой (no-op).
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Booking бронирование автомобиля на диапазон дат (включительно)
type Booking struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   time.Time

	// Ссылки приходят от бэкенда либо id, либо встроенным объектом
	CarID       string
	Car         *Car
	ProviderID  string
	Provider    *Provider
	PromotionID *string
	Promotion   *Promotion

	TotalPrice decimal.Decimal
	Status     BookingStatus

	CreatedAt time.Time
}

// Days returns the number of billable days of the booking
func (b *Booking) Days() int {
	return DayCount(b.StartDate, b.EndDate)
}

// ValidateDateRange проверяет, что обе даты указаны и конец строго позже начала
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrDatesRequired
	}
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	return nil
}
