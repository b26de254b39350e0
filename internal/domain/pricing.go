package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Day длительность суток, используемая при подсчете дней аренды
const Day = 24 * time.Hour

// DayCount возвращает количество дней между датами: модуль разницы,
// деленный на длительность суток с округлением вверх, но не меньше 1.
// Часовые пояса не нормализуются.
func DayCount(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}

	days := int(math.Ceil(float64(diff) / float64(Day)))
	if days < 1 {
		return 1
	}
	return days
}

// Estimate предварительная стоимость: дни * цена за день.
// Итоговую цену всегда считает бэкенд.
func Estimate(days int, pricePerDay decimal.Decimal) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return pricePerDay.Mul(decimal.NewFromInt(int64(days)))
}

// PriceCalculation результат расчета цены на стороне бэкенда.
// Клиентская логика его только читает.
type PriceCalculation struct {
	NumberOfDays       int
	PricePerDay        decimal.Decimal
	BasePrice          decimal.Decimal
	FinalPrice         decimal.Decimal
	DiscountAmount     *decimal.Decimal
	PromotionID        *string
	PromotionName      *string
	DiscountPercentage *decimal.Decimal
}

// HasDiscount returns true if the backend applied a non-zero discount
func (p *PriceCalculation) HasDiscount() bool {
	return p.DiscountAmount != nil && p.DiscountAmount.IsPositive()
}
