package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidStatus возвращается при попытке установить неизвестный статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidTransition возвращается при попытке перевести статус назад
	ErrInvalidTransition = errors.New("booking status cannot move backwards")

	// ErrDuplicateSubmit возвращается, когда бронирование с тем же ключом еще создается
	ErrDuplicateSubmit = errors.New("booking with this idempotency key is already being submitted")

	// ErrUnavailable возвращается при сетевой ошибке или ошибке бэкенда
	ErrUnavailable = errors.New("booking backend unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
