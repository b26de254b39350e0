package get_payment_status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookings struct {
	mu     sync.Mutex
	status domain.BookingStatus
	err    error
}

func (f *fakeBookings) GetOne(_ context.Context, _ session.Session, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: id, Status: f.status}, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, _ session.Session, id string, status domain.BookingStatus) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	return &domain.Booking{ID: id, Status: status}, nil
}

var authed = session.Session{Token: "tok", UserID: "u1"}

func newRegistry(b *fakeBookings) *payment_status.Registry {
	return payment_status.NewRegistry(b, nil, nil, nopLogger{}, payment_status.Options{
		PollInterval: time.Hour,
	})
}

func serve(h *Handler) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/payment", h.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/bookings/b1/payment", nil)
	req = req.WithContext(session.WithSession(req.Context(), authed))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ReturnsServerStatus(t *testing.T) {
	b := &fakeBookings{status: domain.StatusProcessing}
	registry := newRegistry(b)
	defer registry.StopAll(context.Background())

	rec := serve(NewHandler(registry, nopLogger{}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                    `json:"success"`
		Data    payment_status.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "b1", body.Data.BookingID)
	assert.Equal(t, domain.StatusProcessing, body.Data.Status)
	assert.True(t, body.Data.Polling)

	_, ok := registry.Get(authed, "b1")
	assert.True(t, ok)
}

func TestHandle_NotFoundReleasesPoller(t *testing.T) {
	b := &fakeBookings{err: bookings.ErrBookingNotFound}
	registry := newRegistry(b)
	defer registry.StopAll(context.Background())

	rec := serve(NewHandler(registry, nopLogger{}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, ok := registry.Get(authed, "b1")
	assert.False(t, ok)
}
