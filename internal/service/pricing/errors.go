package pricing

import "errors"

var (
	// ErrInvalidInput возвращается при пустом carID или неположительном числе дней
	ErrInvalidInput = errors.New("invalid price calculation input")

	// ErrPriceCalculation возвращается при сетевой ошибке или статусе не 2xx
	ErrPriceCalculation = errors.New("failed to calculate price")
)
