// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"fitbook/models"
)

// BookingRepository is the durable record keeper for bookings.
//
// Errors are the sentinels of the repository package: ErrNotFound, ErrStaleState
// and ErrSlotConflict.
type BookingRepository interface {
	// CreateIfAvailable assigns an ID, sets pending_payment and persists b, but only if no
	// booking of the same trainer holds an overlapping slot at now. The check and the insert
	// are atomic with respect to other calls for the same trainer.
	CreateIfAvailable(ctx context.Context, b *models.Booking, now time.Time) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Transition is a compare-and-swap on status. It fails with ErrStaleState when the
	// persisted status is not from, and never permits a move out of a terminal state.
	Transition(ctx context.Context, id string, from, to models.BookingStatus, update models.BookingUpdate) (*models.Booking, error)
	// AttachOrder records the gateway order on a booking that is still pending.
	AttachOrder(ctx context.Context, id, orderID string) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error)
	// ListExpired returns pending bookings whose payment window closed at or before now.
	ListExpired(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error)
	// ListPendingWithoutOrder returns pending bookings created at or before olderThan
	// that have no gateway order recorded.
	ListPendingWithoutOrder(ctx context.Context, olderThan time.Time, limit int64) ([]models.Booking, error)
}
