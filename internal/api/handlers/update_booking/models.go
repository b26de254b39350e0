package update_booking

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
)

// UpdateBookingRequest HTTP request model.
// Либо только status, либо поля переноса: startDate и endDate обязательны,
// остальные берутся из текущего бронирования. promoId = "" снимает промоакцию.
type UpdateBookingRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending processing completed failed"`
	StartDate  *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ProviderID *string `json:"providerId,omitempty"`
	CarID      *string `json:"carId,omitempty"`
	PromoID    *string `json:"promoId,omitempty"`
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	Booking *models.BookingResponse `json:"booking"`
	Message string                  `json:"message"`
}

// IsStatusOnly returns true if the request changes only the payment status
func (r *UpdateBookingRequest) IsStatusOnly() bool {
	return r.Status != nil && !r.hasRescheduleFields()
}

// IsMixed returns true if the request combines status with reschedule fields
func (r *UpdateBookingRequest) IsMixed() bool {
	return r.Status != nil && r.hasRescheduleFields()
}

func (r *UpdateBookingRequest) hasRescheduleFields() bool {
	return r.StartDate != nil || r.EndDate != nil || r.ProviderID != nil || r.CarID != nil || r.PromoID != nil
}

// ToUseCaseRequest собирает запрос переноса поверх текущего бронирования
func (r *UpdateBookingRequest) ToUseCaseRequest(current *domain.Booking) (booking_form.Request, error) {
	req := booking_form.Request{
		StartDate:  current.StartDate,
		EndDate:    current.EndDate,
		ProviderID: current.ProviderID,
		CarID:      current.CarID,
		PromoID:    current.PromotionID,
	}

	if r.StartDate != nil {
		start, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return booking_form.Request{}, err
		}
		req.StartDate = start
	}
	if r.EndDate != nil {
		end, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return booking_form.Request{}, err
		}
		req.EndDate = end
	}
	if r.ProviderID != nil {
		req.ProviderID = strings.TrimSpace(*r.ProviderID)
		// Машина прежнего провайдера не подходит новому
		if req.ProviderID != current.ProviderID && r.CarID == nil {
			req.CarID = ""
		}
	}
	if r.CarID != nil {
		req.CarID = strings.TrimSpace(*r.CarID)
	}
	if r.PromoID != nil {
		promoID := strings.TrimSpace(*r.PromoID)
		req.PromoID = &promoID
	}

	return req, nil
}
