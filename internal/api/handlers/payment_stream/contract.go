package payment_stream

import (
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

type PaymentRegistry interface {
	GetOrStart(sess session.Session, bookingID string) (*payment_status.Poller, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
