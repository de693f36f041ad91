package models

import "time"

// BookingStatus is the payment lifecycle state of a booking.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusFailed         BookingStatus = "failed"
	StatusExpired        BookingStatus = "expired"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusFailed || s == StatusExpired
}

// CanTransition reports whether from -> to is a permitted lifecycle move.
func CanTransition(from, to BookingStatus) bool {
	return from == StatusPendingPayment && to.IsTerminal()
}

// Booking is a reserved, priced session between a user and a trainer.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	UserID        string        `bson:"user_id" json:"user_id"`
	TrainerID     string        `bson:"trainer_id" json:"trainer_id"`
	TrainerName   string        `bson:"trainer_name" json:"trainer_name"`
	SessionDate   time.Time     `bson:"session_date" json:"session_date"`
	SessionEnd    time.Time     `bson:"session_end" json:"session_end"`
	DurationHours float64       `bson:"duration_hours" json:"duration_hours"`
	TotalAmount   float64       `bson:"total_amount" json:"total_amount"` // major units, display only
	AmountMinor   int64         `bson:"amount_minor" json:"amount_minor"` // authoritative charge in minor units
	Currency      string        `bson:"currency" json:"currency"`
	Status        BookingStatus `bson:"status" json:"status"`
	OrderID       string        `bson:"order_id" json:"order_id,omitempty"`
	PaymentID     string        `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	FailureReason string        `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
	ExpiresAt     time.Time     `bson:"expires_at" json:"expires_at"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open comparison, so touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Interval returns the session window of the booking.
func (b Booking) Interval() Interval {
	return Interval{Start: b.SessionDate, End: b.SessionEnd}
}

// PaymentWindowLapsed reports whether a pending booking is past its expiry at now.
func (b Booking) PaymentWindowLapsed(now time.Time) bool {
	return b.Status == StatusPendingPayment && !b.ExpiresAt.IsZero() && !now.Before(b.ExpiresAt)
}

// HoldsSlot reports whether the booking blocks its trainer's time window at now.
// Lapsed pending bookings no longer hold the slot even before they are marked expired.
func (b Booking) HoldsSlot(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusPendingPayment:
		return !b.PaymentWindowLapsed(now)
	default:
		return false
	}
}

// BookingUpdate carries the optional fields written together with a status transition.
type BookingUpdate struct {
	PaymentID     string
	OrderID       string
	FailureReason string
}
