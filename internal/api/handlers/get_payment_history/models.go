package get_payment_history

import (
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// PaymentEventResponse запись журнала оплаты в ответе API
type PaymentEventResponse struct {
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentHistoryResponse история смен статуса оплаты бронирования
type PaymentHistoryResponse struct {
	BookingID string                 `json:"bookingId"`
	Events    []PaymentEventResponse `json:"events"`
	Count     int                    `json:"count"`
}

// FromDomainEvents конвертирует журнал в ответ API
func FromDomainEvents(bookingID string, events []*domain.PaymentEvent) PaymentHistoryResponse {
	resp := PaymentHistoryResponse{
		BookingID: bookingID,
		Events:    make([]PaymentEventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, PaymentEventResponse{
			Status:    string(e.Status),
			Source:    string(e.Source),
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}
	resp.Count = len(resp.Events)
	return resp
}
