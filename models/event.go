package models

import "time"

const (
	EventBookingReserved  = "booking.reserved"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingFailed    = "booking.failed"
	EventBookingExpired   = "booking.expired"
)

// BookingEvent is published on every lifecycle change.
type BookingEvent struct {
	Type        string        `json:"type"`
	BookingID   string        `json:"booking_id"`
	UserID      string        `json:"user_id"`
	TrainerID   string        `json:"trainer_id"`
	Status      BookingStatus `json:"status"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// NewBookingEvent snapshots b for publication.
func NewBookingEvent(eventType string, b Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		UserID:      b.UserID,
		TrainerID:   b.TrainerID,
		Status:      b.Status,
		AmountMinor: b.AmountMinor,
		Currency:    b.Currency,
		OccurredAt:  at,
	}
}
