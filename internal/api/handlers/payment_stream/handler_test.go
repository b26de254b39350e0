package payment_stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
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
}

func (f *fakeBookings) GetOne(_ context.Context, _ session.Session, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.Booking{ID: id, Status: f.status}, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, _ session.Session, id string, status domain.BookingStatus) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	return &domain.Booking{ID: id, Status: status}, nil
}

func (f *fakeBookings) set(status domain.BookingStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := session.WithSession(r.Context(), session.Session{Token: "tok", UserID: "u1"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestHandle_StreamsUntilRedirect(t *testing.T) {
	b := &fakeBookings{status: domain.StatusPending}
	registry := payment_status.NewRegistry(b, nil, nil, nopLogger{}, payment_status.Options{
		PollInterval:        10 * time.Millisecond,
		PolledRedirectDelay: 20 * time.Millisecond,
	})
	defer registry.StopAll(context.Background())

	r := mux.NewRouter()
	r.Use(withSession)
	r.HandleFunc("/bookings/{bookingId}/payment/ws", NewHandler(registry, nopLogger{}).Handle)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/bookings/b1/payment/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first payment_status.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "b1", first.BookingID)

	b.set(domain.StatusCompleted)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var last payment_status.Snapshot
	for {
		var s payment_status.Snapshot
		if err := conn.ReadJSON(&s); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		last = s
	}

	assert.Equal(t, domain.StatusCompleted, last.Status)
	require.NotNil(t, last.Redirect)
	assert.True(t, last.Redirect.Fired)
}

func TestIsFinal(t *testing.T) {
	assert.False(t, isFinal(payment_status.Snapshot{Status: domain.StatusPending, Polling: true}))
	assert.True(t, isFinal(payment_status.Snapshot{Status: domain.StatusFailed}))
	assert.False(t, isFinal(payment_status.Snapshot{
		Status:   domain.StatusCompleted,
		Redirect: &payment_status.Redirect{To: "/dashboard"},
	}))
	assert.True(t, isFinal(payment_status.Snapshot{
		Status:   domain.StatusCompleted,
		Redirect: &payment_status.Redirect{To: "/dashboard", Fired: true},
	}))
}
