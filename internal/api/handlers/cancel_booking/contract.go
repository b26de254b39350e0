package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type BookingService interface {
	Delete(ctx context.Context, sess session.Session, id string) error
}

// PaymentPollers реестр опросов оплаты: опрос отмененного бронирования останавливается
type PaymentPollers interface {
	Release(sess session.Session, bookingID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
