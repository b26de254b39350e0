package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/catalog"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

func TestFailureFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "auth",
			err:        fmt.Errorf("%w: token expired", session.ErrAuthRequired),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "business rejection verbatim",
			err:        &domain.RejectedError{Message: "You have already made 3 bookings"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "You have already made 3 bookings",
		},
		{
			name:       "access denied",
			err:        fmt.Errorf("%w: rentalapi client: forbidden: status=403: ", domain.ErrAccessDenied),
			wantStatus: http.StatusForbidden,
			wantError:  "access denied",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: car id is required", pricing.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid price calculation input: car id is required",
		},
		{
			name:       "booking not found",
			err:        bookings.ErrBookingNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "booking not found",
		},
		{
			name:       "provider not found",
			err:        fmt.Errorf("%w: p1", catalog.ErrProviderNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "provider not found",
		},
		{
			name:       "backward transition",
			err:        fmt.Errorf("%w: completed -> pending", bookings.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "already settled",
			err:        payment_status.ErrAlreadySettled,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "pricing unavailable hides details",
			err:        fmt.Errorf("%w: dial tcp: refused", pricing.ErrPriceCalculation),
			wantStatus: http.StatusBadGateway,
			wantError:  "failed to calculate price",
		},
		{
			name:       "bookings unavailable",
			err:        fmt.Errorf("%w: Create - timeout", bookings.ErrUnavailable),
			wantStatus: http.StatusBadGateway,
			wantError:  "booking backend unavailable",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, f := FailureFromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, f.Success)
			assert.NotEmpty(t, f.Error)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, f.Error)
			}
		})
	}
}

func TestFailureFromError_ValidationFields(t *testing.T) {
	err := &booking_form.ValidationError{Fields: map[string]string{
		booking_form.FieldStartDate: "Start date is required",
	}}

	status, f := FailureFromError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Start date is required", f.Fields[booking_form.FieldStartDate])
}

func TestRespondServiceError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	status := RespondServiceError(rec, session.ErrAuthRequired)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Authentication required", body["error"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestRespondJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "b1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"b1"}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		CarID string `json:"carId"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"carId":"c1"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "c1", dst.CarID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(req, &dst))
}

func TestValidateStruct(t *testing.T) {
	type dto struct {
		CarID     string `json:"carId" validate:"required"`
		StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	}

	assert.Nil(t, ValidateStruct(dto{CarID: "c1", StartDate: "2024-05-01"}))

	fields := ValidateStruct(dto{StartDate: "01.05.2024"})
	require.Len(t, fields, 2)
	assert.Contains(t, fields, "carId")
	assert.Contains(t, fields, "startDate")
}
