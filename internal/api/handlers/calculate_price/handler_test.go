package calculate_price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockPricing struct {
	calls  int
	gotReq pricing.QuoteRequest
	result *domain.PriceCalculation
	err    error
}

func (m *mockPricing) Quote(_ context.Context, _ session.Session, req pricing.QuoteRequest) (*domain.PriceCalculation, error) {
	m.calls++
	m.gotReq = req
	return m.result, m.err
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/price-quotes", strings.NewReader(body))
	req = req.WithContext(session.WithSession(req.Context(), session.Session{Token: "tok"}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Discounted(t *testing.T) {
	discount := decimal.NewFromInt(500)
	pct := decimal.NewFromInt(20)
	promoID := "promo1"
	svc := &mockPricing{result: &domain.PriceCalculation{
		NumberOfDays:       3,
		PricePerDay:        decimal.NewFromInt(1000),
		BasePrice:          decimal.NewFromInt(3000),
		FinalPrice:         decimal.NewFromInt(2500),
		DiscountAmount:     &discount,
		PromotionID:        &promoID,
		DiscountPercentage: &pct,
	}}

	rec := post(NewHandler(svc, nopLogger{}), `{"carId":"c1","startDate":"2024-05-01","endDate":"2024-05-04","promoId":"promo1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", svc.gotReq.CarID)
	require.NotNil(t, svc.gotReq.PromoID)
	assert.Equal(t, "promo1", *svc.gotReq.PromoID)
	assert.Contains(t, rec.Body.String(), `"finalPrice":"2500"`)
	assert.Contains(t, rec.Body.String(), `"discountAmount":"500"`)
}

func TestHandle_BlankPromoIsDropped(t *testing.T) {
	svc := &mockPricing{result: &domain.PriceCalculation{NumberOfDays: 3}}

	rec := post(NewHandler(svc, nopLogger{}), `{"carId":"c1","startDate":"2024-05-01","endDate":"2024-05-04","promoId":"  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotReq.PromoID)
}

func TestHandle_ZeroDiscountOmitted(t *testing.T) {
	zero := decimal.Zero
	svc := &mockPricing{result: &domain.PriceCalculation{
		NumberOfDays:   3,
		FinalPrice:     decimal.NewFromInt(3000),
		DiscountAmount: &zero,
	}}

	rec := post(NewHandler(svc, nopLogger{}), `{"carId":"c1","startDate":"2024-05-01","endDate":"2024-05-04"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "discountAmount")
}

func TestHandle_Validation(t *testing.T) {
	svc := &mockPricing{}

	rec := post(NewHandler(svc, nopLogger{}), `{"startDate":"2024/05/01"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, svc.calls)
}

func TestHandle_ServiceErrors(t *testing.T) {
	rec := post(NewHandler(&mockPricing{err: pricing.ErrPriceCalculation}, nopLogger{}),
		`{"carId":"c1","startDate":"2024-05-01","endDate":"2024-05-04"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to calculate price")

	rec = post(NewHandler(&mockPricing{err: &domain.RejectedError{Message: "Promotion has expired"}}, nopLogger{}),
		`{"carId":"c1","startDate":"2024-05-01","endDate":"2024-05-04"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Promotion has expired")
}
