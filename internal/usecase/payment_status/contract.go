package payment_status

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

// BookingService интерфейс сервиса бронирований
type BookingService interface {
	GetOne(ctx context.Context, sess session.Session, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, sess session.Session, id string, status domain.BookingStatus) (*domain.Booking, error)
}

// Journal интерфейс журнала смен статуса оплаты
type Journal interface {
	Append(ctx context.Context, event *domain.PaymentEvent) error
}

// Metrics интерфейс для учета работы опрашивающих горутин
type Metrics interface {
	PaymentTransition(status, source string)
	PollerStarted()
	PollerStopped()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
