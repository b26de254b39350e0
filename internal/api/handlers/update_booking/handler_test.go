package update_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type mockService struct {
	booking     *domain.Booking
	getErr      error
	statusErr   error
	statusCalls int
	gotStatus   domain.BookingStatus
}

func (m *mockService) GetOne(_ context.Context, _ session.Session, _ string) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockService) UpdateStatus(_ context.Context, _ session.Session, id string, status domain.BookingStatus) (*domain.Booking, error) {
	m.statusCalls++
	m.gotStatus = status
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return &domain.Booking{ID: id, Status: status}, nil
}

type mockForm struct {
	calls  int
	gotReq booking_form.Request
	err    error
}

func (m *mockForm) Reschedule(_ context.Context, _ session.Session, booking *domain.Booking, req booking_form.Request) (*booking_form.SubmitResult, error) {
	m.calls++
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	updated := *booking
	updated.StartDate = req.StartDate
	updated.EndDate = req.EndDate
	return &booking_form.SubmitResult{Booking: &updated, Message: "Booking updated successfully"}, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}", h.Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/bookings/b1", strings.NewReader(body))
	req = req.WithContext(session.WithSession(req.Context(), session.Session{Token: "tok", UserID: "u1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func existingBooking() *domain.Booking {
	promo := "promo1"
	return &domain.Booking{
		ID:          "b1",
		StartDate:   date(2024, 5, 1),
		EndDate:     date(2024, 5, 4),
		CarID:       "c1",
		ProviderID:  "p1",
		PromotionID: &promo,
		Status:      domain.StatusPending,
	}
}

func TestHandle_StatusOnly(t *testing.T) {
	svc := &mockService{booking: existingBooking()}
	form := &mockForm{}

	rec := serve(NewHandler(svc, form, nopLogger{}), `{"status":"completed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.statusCalls)
	assert.Equal(t, domain.StatusCompleted, svc.gotStatus)
	assert.Equal(t, 0, form.calls)
}

func TestHandle_StatusBackwardIsConflict(t *testing.T) {
	svc := &mockService{statusErr: bookings.ErrInvalidTransition}

	rec := serve(NewHandler(svc, &mockForm{}, nopLogger{}), `{"status":"pending"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_UnknownStatus(t *testing.T) {
	svc := &mockService{}

	rec := serve(NewHandler(svc, &mockForm{}, nopLogger{}), `{"status":"refunded"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, svc.statusCalls)
}

func TestHandle_MixedAndEmpty(t *testing.T) {
	svc := &mockService{booking: existingBooking()}
	form := &mockForm{}
	h := NewHandler(svc, form, nopLogger{})

	rec := serve(h, `{"status":"completed","startDate":"2024-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, svc.statusCalls)
	assert.Equal(t, 0, form.calls)
}

func TestHandle_RescheduleMergesCurrentBooking(t *testing.T) {
	svc := &mockService{booking: existingBooking()}
	form := &mockForm{}

	rec := serve(NewHandler(svc, form, nopLogger{}), `{"startDate":"2024-06-01","endDate":"2024-06-05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, form.calls)
	assert.Equal(t, date(2024, 6, 1), form.gotReq.StartDate)
	assert.Equal(t, date(2024, 6, 5), form.gotReq.EndDate)
	assert.Equal(t, "p1", form.gotReq.ProviderID)
	assert.Equal(t, "c1", form.gotReq.CarID)
	require.NotNil(t, form.gotReq.PromoID)
	assert.Equal(t, "promo1", *form.gotReq.PromoID)
}

func TestHandle_RescheduleClearsPromotion(t *testing.T) {
	svc := &mockService{booking: existingBooking()}
	form := &mockForm{}

	rec := serve(NewHandler(svc, form, nopLogger{}), `{"promoId":""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, form.gotReq.PromoID)
	assert.Equal(t, "", *form.gotReq.PromoID)
}

func TestHandle_RescheduleNewProviderDropsCar(t *testing.T) {
	svc := &mockService{booking: existingBooking()}
	form := &mockForm{}

	rec := serve(NewHandler(svc, form, nopLogger{}), `{"providerId":"p2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p2", form.gotReq.ProviderID)
	assert.Equal(t, "", form.gotReq.CarID)
}

func TestHandle_RescheduleNotFound(t *testing.T) {
	svc := &mockService{getErr: bookings.ErrBookingNotFound}
	form := &mockForm{}

	rec := serve(NewHandler(svc, form, nopLogger{}), `{"startDate":"2024-06-01","endDate":"2024-06-05"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, form.calls)
}
