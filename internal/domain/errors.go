package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDatesRequired возвращается, когда не указана дата начала или окончания
	ErrDatesRequired = errors.New("start date and end date are required")

	// ErrEndNotAfterStart возвращается, когда дата окончания не позже даты начала
	ErrEndNotAfterStart = errors.New("end date must be after start date")

	// ErrAccessDenied возвращается, когда бэкенд запретил действие без пояснения
	ErrAccessDenied = errors.New("access denied")
)

// RejectedError бизнес-отказ бэкенда (success=false).
// Сообщение сервера передается пользователю без изменений.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// ForbiddenFrom переводит ответ 403 бэкенда в ошибку домена:
// с сообщением это бизнес-отказ, без него ErrAccessDenied.
func ForbiddenFrom(message string, cause error) error {
	if message != "" {
		return &RejectedError{Message: message}
	}
	return fmt.Errorf("%w: %v", ErrAccessDenied, cause)
}
