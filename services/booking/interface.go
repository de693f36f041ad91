package booking

import (
	"context"
	"time"

	"fitbook/models"
)

// Identity is the authenticated requester as resolved by the auth middleware.
type Identity struct {
	Authenticated bool
	UserID        string
}

// BookingService runs the reserve, pay and settle workflow for trainer sessions.
type BookingService interface {
	// StartBooking reserves the slot in pending_payment and opens a gateway order for it.
	StartBooking(ctx context.Context, who Identity, req models.BookingRequest) (*models.StartBookingResponse, error)
	// CompletePayment settles a booking from the checkout result. Repeated callbacks
	// return the booking's current status instead of failing.
	CompletePayment(ctx context.Context, who Identity, req models.PaymentVerification) (*models.PaymentResult, error)
	GetBooking(ctx context.Context, who Identity, bookingID string) (*models.Booking, error)
	ListMyBookings(ctx context.Context, who Identity) ([]models.Booking, error)

	// ExpireBooking expires the booking if its payment window has closed.
	ExpireBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// ExpireOverdue expires up to limit lapsed bookings and returns how many it moved.
	ExpireOverdue(ctx context.Context, limit int64) (int, error)
	// ReconcileOrphanedOrders re-attaches gateway orders that were created but never
	// recorded on their booking.
	ReconcileOrphanedOrders(ctx context.Context, grace time.Duration, limit int64) (int, error)
}

// ExpiryScheduler arranges an out-of-band expiry check for a booking at a given time.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error
}
