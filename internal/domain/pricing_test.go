package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"three days", date(2024, 5, 1), date(2024, 5, 4), 3},
		{"same day counts as one", date(2024, 5, 1), date(2024, 5, 1), 1},
		{"partial day rounds up", date(2024, 5, 1), date(2024, 5, 1).Add(2 * time.Hour), 1},
		{"day and a bit rounds up", date(2024, 5, 1), date(2024, 5, 2).Add(time.Minute), 2},
		{"reversed range uses absolute difference", date(2024, 5, 4), date(2024, 5, 1), 3},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayCount(tt.start, tt.end))
		})
	}
}

func TestDayCount_Monotonic(t *testing.T) {
	start := date(2024, 5, 1)
	prev := 0

	for offset := 1; offset <= 400; offset++ {
		got := DayCount(start, start.AddDate(0, 0, offset))
		assert.GreaterOrEqual(t, got, 1)
		assert.Greater(t, got, prev, "offset=%d", offset)
		prev = got
	}
}

func TestEstimate(t *testing.T) {
	days := DayCount(date(2024, 5, 1), date(2024, 5, 4))

	got := Estimate(days, decimal.NewFromInt(1000))
	assert.True(t, got.Equal(decimal.NewFromInt(3000)), got.String())

	assert.True(t, Estimate(0, decimal.NewFromInt(1000)).IsZero())
}

func TestPriceCalculation_HasDiscount(t *testing.T) {
	discount := decimal.NewFromInt(500)
	zero := decimal.Zero

	assert.True(t, (&PriceCalculation{DiscountAmount: &discount}).HasDiscount())
	assert.False(t, (&PriceCalculation{DiscountAmount: &zero}).HasDiscount())
	assert.False(t, (&PriceCalculation{}).HasDiscount())
}
