package models

import "time"

// BookingRequest is the startBooking input.
type BookingRequest struct {
	TrainerID     string    `json:"trainer_id"`
	SessionDate   time.Time `json:"session_date" binding:"required"`
	DurationHours float64   `json:"duration_hours" binding:"required,session_duration"`
	Notes         string    `json:"notes,omitempty" binding:"max=1000"`
}

// PaymentVerification is the checkout result handed back by the client.
type PaymentVerification struct {
	BookingID string `json:"booking_id" binding:"required"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}
