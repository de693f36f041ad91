package models

// StartBookingResponse carries what the client needs to open checkout.
type StartBookingResponse struct {
	BookingID   string        `json:"booking_id"`
	OrderID     string        `json:"order_id"`
	Amount      int64         `json:"amount"` // minor units, as the gateway expects
	TotalAmount float64       `json:"total_amount"`
	Currency    string        `json:"currency"`
	Gateway     string        `json:"gateway"`
	Status      BookingStatus `json:"status"`
}

// PaymentResult is the completePayment response.
type PaymentResult struct {
	BookingID string        `json:"booking_id"`
	Status    BookingStatus `json:"status"`
}
