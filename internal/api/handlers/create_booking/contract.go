package create_booking

import (
	"context"

	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
)

type BookingFormUseCase interface {
	Create(ctx context.Context, sess session.Session, req booking_form.Request, idempotencyKey string) (*booking_form.SubmitResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
