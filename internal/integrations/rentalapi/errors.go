package rentalapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized возвращается при ответе 401 от бэкенда
	ErrUnauthorized = errors.New("rentalapi client: unauthorized")

	// ErrForbidden возвращается при ответе 403: токен принят, но действие запрещено
	ErrForbidden = errors.New("rentalapi client: forbidden")

	// ErrNotFound возвращается при ответе 404 от бэкенда
	ErrNotFound = errors.New("rentalapi client: resource not found")

	// ErrUnavailable возвращается при сетевой ошибке или таймауте
	ErrUnavailable = errors.New("rentalapi client: backend unavailable")

	// ErrUnexpectedStatus возвращается при любом другом статусе не 2xx
	ErrUnexpectedStatus = errors.New("rentalapi client: unexpected status")

	// ErrRejected возвращается, когда бэкенд ответил 2xx, но success=false
	ErrRejected = errors.New("rentalapi client: request rejected")

	// ErrInvalidResponse возвращается при некорректном теле ответа
	ErrInvalidResponse = errors.New("rentalapi client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("rentalapi client: internal error")
)

// APIError ошибка с сообщением бэкенда.
// Kind одна из сентинел-ошибок пакета, доступна через errors.Is.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: status=%d: %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// MessageOf возвращает сообщение бэкенда, если ошибка его содержит
func MessageOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
