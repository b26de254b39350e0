package payment_status

import "errors"

var (
	// ErrAlreadySettled возвращается при попытке оплатить уже завершенное или неудачное бронирование
	ErrAlreadySettled = errors.New("payment_status: payment already settled")

	// ErrSimulationInProgress возвращается, когда оплата уже отправлена и ждет ответа
	ErrSimulationInProgress = errors.New("payment_status: payment simulation in progress")

	// ErrStopped возвращается при обращении к остановленному опросу
	ErrStopped = errors.New("payment_status: poller stopped")
)
