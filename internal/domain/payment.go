package domain

import "time"

// PaymentEventSource источник смены статуса оплаты
type PaymentEventSource string

const (
	SourcePoll       PaymentEventSource = "poll"
	SourceOptimistic PaymentEventSource = "optimistic"
	SourceSimulate   PaymentEventSource = "simulate"
)

// PaymentEvent запись журнала оплаты: какой статус и откуда был получен
type PaymentEvent struct {
	ID        int64
	BookingID string
	UserID    string
	Status    BookingStatus
	Source    PaymentEventSource
	Message   *string
	CreatedAt time.Time
}

// IntentStatus состояние намерения создать бронирование
type IntentStatus string

const (
	IntentReserved  IntentStatus = "reserved"
	IntentCompleted IntentStatus = "completed"
)

// SubmitIntent ключ идемпотентности отправки формы бронирования
type SubmitIntent struct {
	Key       string
	UserID    string
	CarID     string
	BookingID *string
	Status    IntentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
