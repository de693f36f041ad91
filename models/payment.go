package models

import "time"

// PaymentOrderStatus is the settlement state of a gateway order.
type PaymentOrderStatus string

const (
	OrderCreated            PaymentOrderStatus = "created"
	OrderPaid               PaymentOrderStatus = "paid"
	OrderVerificationFailed PaymentOrderStatus = "verification_failed"
)

// PaymentOrder is the gateway's charge tied to exactly one booking.
type PaymentOrder struct {
	ID        string             `bson:"id" json:"id"`
	BookingID string             `bson:"booking_id" json:"booking_id"`
	Gateway   string             `bson:"gateway" json:"gateway"`
	Amount    int64              `bson:"amount" json:"amount"` // minor units
	Currency  string             `bson:"currency" json:"currency"`
	Status    PaymentOrderStatus `bson:"status" json:"status"`
	PaymentID string             `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
