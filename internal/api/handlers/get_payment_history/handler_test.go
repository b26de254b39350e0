package get_payment_history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookings struct {
	err error
}

func (f *fakeBookings) GetOne(_ context.Context, _ session.Session, id string) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: id, Status: domain.StatusCompleted}, nil
}

type fakeJournal struct {
	events []*domain.PaymentEvent
	err    error
	asked  string
}

func (f *fakeJournal) ListByBooking(_ context.Context, bookingID string) ([]*domain.PaymentEvent, error) {
	f.asked = bookingID
	return f.events, f.err
}

func serve(h *Handler) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/payment/events", h.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/bookings/b1/payment/events", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.Session{Token: "tok", UserID: "u1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ReturnsJournal(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	journal := &fakeJournal{events: []*domain.PaymentEvent{
		{ID: 1, BookingID: "b1", Status: domain.StatusProcessing, Source: domain.SourceOptimistic, CreatedAt: at},
		{ID: 2, BookingID: "b1", Status: domain.StatusCompleted, Source: domain.SourcePoll, CreatedAt: at.Add(time.Second)},
	}}

	rec := serve(NewHandler(&fakeBookings{}, journal, nopLogger{}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b1", journal.asked)

	var body struct {
		Success bool                   `json:"success"`
		Data    PaymentHistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	resp := body.Data
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "processing", resp.Events[0].Status)
	assert.Equal(t, "optimistic", resp.Events[0].Source)
	assert.Equal(t, "completed", resp.Events[1].Status)
}

func TestHandle_BookingNotAccessible(t *testing.T) {
	journal := &fakeJournal{}

	rec := serve(NewHandler(&fakeBookings{err: bookings.ErrBookingNotFound}, journal, nopLogger{}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, journal.asked, "journal must not be read without access check")
}

func TestHandle_JournalFailure(t *testing.T) {
	rec := serve(NewHandler(&fakeBookings{}, &fakeJournal{err: errors.New("db down")}, nopLogger{}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
