package update_booking

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
)

type BookingService interface {
	GetOne(ctx context.Context, sess session.Session, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, sess session.Session, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type BookingFormUseCase interface {
	Reschedule(ctx context.Context, sess session.Session, booking *domain.Booking, req booking_form.Request) (*booking_form.SubmitResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
