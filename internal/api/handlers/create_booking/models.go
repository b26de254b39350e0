package create_booking

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StartDate  string  `json:"startDate" validate:"required,datetime=2006-01-02"` // "2024-05-01"
	EndDate    string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	ProviderID string  `json:"providerId" validate:"required"`
	CarID      string  `json:"carId"`
	PromoID    *string `json:"promoId,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking    *models.BookingResponse `json:"booking"`
	RedirectTo string                  `json:"redirectTo"`
	Message    string                  `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (booking_form.Request, error) {
	start, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return booking_form.Request{}, err
	}
	end, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return booking_form.Request{}, err
	}

	req := booking_form.Request{
		StartDate:  start,
		EndDate:    end,
		ProviderID: strings.TrimSpace(r.ProviderID),
		CarID:      strings.TrimSpace(r.CarID),
	}
	if r.PromoID != nil && strings.TrimSpace(*r.PromoID) != "" {
		promoID := strings.TrimSpace(*r.PromoID)
		req.PromoID = &promoID
	}
	return req, nil
}

// FromUseCaseResult конвертирует результат use case в HTTP response
func FromUseCaseResult(res *booking_form.SubmitResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:    models.FromDomainBooking(res.Booking),
		RedirectTo: res.RedirectTo,
		Message:    res.Message,
	}
}
