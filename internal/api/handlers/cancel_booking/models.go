package cancel_booking

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
