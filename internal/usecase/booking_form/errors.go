package booking_form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation возвращается, когда форма не прошла проверку
	ErrValidation = errors.New("booking_form: validation failed")

	// ErrSubmitInProgress возвращается при повторной отправке до завершения первой
	ErrSubmitInProgress = errors.New("booking_form: submit already in progress")

	// ErrNoCarAvailable возвращается, когда у провайдера нет машин для бронирования
	ErrNoCarAvailable = errors.New("selected provider has no cars available for booking")

	// ErrUnknownSelection возвращается, когда машины или промоакции нет в списке провайдера
	ErrUnknownSelection = errors.New("booking_form: selection is not offered by the provider")

	// ErrNotEditing возвращается при попытке переноса без исходного бронирования
	ErrNotEditing = errors.New("booking_form: form is not in edit mode")
)

// ValidationError ошибки по полям формы
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
