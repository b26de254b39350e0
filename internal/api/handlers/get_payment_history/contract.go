package get_payment_history

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type BookingService interface {
	GetOne(ctx context.Context, sess session.Session, id string) (*domain.Booking, error)
}

type PaymentJournal interface {
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentEvent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
